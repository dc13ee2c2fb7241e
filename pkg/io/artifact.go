package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/furnidraw/pkg/errors"
)

// WriteArtifact writes data to dir/filename and returns the full path.
// filename must be a plain file name. Data goes to a temporary file first,
// so a failed write never leaves a partial artifact behind.
func WriteArtifact(dir, filename string, data []byte) (string, error) {
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filename+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
