package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Write serializes the table as comma-separated values with a header row. A table
// without columns is written as an empty file.
func (t *Table) Write(w io.Writer) error {
	if len(t.Columns) == 0 {
		return nil
	}
	writer := csv.NewWriter(w)
	err := writer.Write(t.Columns)
	if err != nil {
		return err
	}
	for i := range t.Rows {
		err = writer.Write(t.Record(i))
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to `path`, creating parent directories as needed.
func (t *Table) WriteFile(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// the destination only ever holds a complete table, it is replaced by rename.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = t.Write(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Read parses comma-separated values with a header row. Every record must have
// as many fields as the header. Input without any header is an empty table.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := New()
	for _, c := range header {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.addColumn(c)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, c := range header {
			row[c] = record[i]
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
