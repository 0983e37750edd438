// Package snapshot reads and writes the JSON files the pipeline leaves
// behind after each stage.
package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Save writes v as pretty-printed JSON. The write is atomic: bytes go
// to a temp file that is fsynced and renamed into place, so a crash
// mid-write never leaves a truncated snapshot.
func Save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a snapshot into v. The bool reports whether the file
// existed; a missing file is not an error.
func Load(path string, v any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, err
	}
	return true, nil
}

// LoadRows reads a JSON array of objects. A missing file yields an
// empty slice, not an error.
func LoadRows(path string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
