package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput is a MessageOutput that writes every http message into its own file.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears out `dir` and creates it anew.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.directory, fmt.Sprintf("%s.http", id))
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
