package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Endpoint    string   `json:"endpoint"`
	MaxAttempts int      `json:"max_attempts"`
	Keys        []string `json:"keys"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "highwatch.json5"), `{
		// trailing commas and comments are fine, it's json5
		endpoint: "https://example.com/api",
		max_attempts: 3,
		keys: ["data"],
	}`)
	writeFile(t, filepath.Join(dir, "highwatch.local.json5"), `{max_attempts: 5}`)

	cfg, err := ReadConfig(filepath.Join(dir, "highwatch.json5"), testConfig{})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/api", cfg.Endpoint)
	require.Equal(t, 5, cfg.MaxAttempts)
	require.Equal(t, []string{"data"}, cfg.Keys)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json5"), testConfig{})
	require.True(t, os.IsNotExist(err))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	writeFile(t, filepath.Join(root, "highwatch.json5"), `{endpoint: "found"}`)

	cfg, err := ReadRecursively(nested, "highwatch.json5", testConfig{})
	require.NoError(t, err)
	require.Equal(t, "found", cfg.Endpoint)
}

func TestReadConfigOntoBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "highwatch.json5"), `{max_attempts: 0, keys: ["rows"]}`)
	writeFile(t, filepath.Join(dir, "highwatch.local.json5"), `{endpoint: ""}`)

	base := testConfig{Endpoint: "https://example.com/api", MaxAttempts: 3, Keys: []string{"data", "items"}}
	cfg, err := ReadConfig(filepath.Join(dir, "highwatch.json5"), base)
	require.NoError(t, err)
	require.Equal(t, testConfig{Endpoint: "", MaxAttempts: 0, Keys: []string{"rows"}}, cfg)
}

func TestReadConfigNotFoundReturnsBase(t *testing.T) {
	base := testConfig{MaxAttempts: 3}
	cfg, err := ReadRecursively(t.TempDir(), "missing-highwatch.json5", base)
	require.True(t, os.IsNotExist(err))
	require.Equal(t, base, cfg)
}

func TestSplitExt(t *testing.T) {
	name, ext := splitExt("highwatch.json5")
	require.Equal(t, "highwatch", name)
	require.Equal(t, "json5", ext)

	name, ext = splitExt("noext")
	require.Equal(t, "noext", name)
	require.Equal(t, "", ext)
}
