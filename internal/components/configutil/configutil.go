package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// decodeOnto parses the json5 file at `path` on top of `out`. Fields the file does
// not mention keep their current value, fields it sets (zero values included) win.
func decodeOnto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// reads a configuration file on top of `base`, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// the following files are applied in order, later ones override earlier ones.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// slices and maps of `base` may be written to, pass a value nobody else holds.
// os.ErrNotExist is returned (together with `base`) if neither file exists.
func ReadConfig[T any](name string, base T) (T, error) {
	out := base

	found, err := decodeOnto(name, &out)
	if err != nil {
		return base, err
	}

	prefixname, ext := splitExt(filepath.Base(name))
	localFilepath := filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	foundLocal, err := decodeOnto(localFilepath, &out)
	if err != nil {
		return base, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localFilepath)
	}

	if !found && !foundLocal {
		return base, os.ErrNotExist
	}
	return out, nil
}

// ReadConfig but it recursively goes up the filesystem from `start` until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](start, name string, base T) (T, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return base, err
	}

	for {
		config, err := ReadConfig(filepath.Join(current, name), base)
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return base, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return base, os.ErrNotExist
		}
		current = parent
	}
}
