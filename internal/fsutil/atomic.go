// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsutil provides the atomic file write discipline shared by
// downloads, the progress checkpoint, and the CSV export: bytes go to a
// temporary file in the destination directory and are renamed into place,
// so no reader ever observes a partial file at the canonical path.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile atomically writes data to path.
func WriteFile(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
