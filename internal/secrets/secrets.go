// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads the optional download credential from a directory
// of plain-text files. Each file holds one secret: the filename is the key
// name and the trimmed contents are the value.
//
// Supported key file: harvest-token (sent as a Bearer Authorization header
// on download requests when present).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenFile = "harvest-token"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// map. Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Token returns the download bearer token from dir, or "" when not
// configured.
func Token(dir string) (string, error) {
	s, err := Load(dir)
	if err != nil {
		return "", err
	}
	return s[tokenFile], nil
}
