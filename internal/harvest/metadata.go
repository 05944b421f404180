// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-harvest/pkg/types"
)

var yearRe = regexp.MustCompile(`^\d{4}$`)

// buildPaper assembles the metadata row for a downloaded item from its
// descriptor. The schema is fixed: author and year are required, year must
// be a four-digit number, and everything else defaults to empty. A
// validation failure is a metadata extraction error for the item.
func buildPaper(d types.Descriptor, pdfPath string) (*types.Paper, error) {
	author := strings.TrimSpace(d.Meta("author"))
	if author == "" {
		return nil, fmt.Errorf("missing required metadata key %q", "author")
	}
	year := strings.TrimSpace(d.Meta("year"))
	if !yearRe.MatchString(year) {
		return nil, fmt.Errorf("metadata key %q must be a four-digit year, got %q", "year", year)
	}

	landing := d.Meta("url")
	if landing == "" {
		landing = d.URL
	}
	volume := d.Meta("volume")
	if volume == "" {
		volume = year
	}

	return &types.Paper{
		ID:        d.ID,
		Title:     d.Title,
		Author:    author,
		Booktitle: d.Meta("booktitle"),
		Editor:    d.Meta("editor"),
		Pages:     d.Meta("pages"),
		Publisher: d.Meta("publisher"),
		URL:       landing,
		Volume:    volume,
		Year:      year,
		Abstract:  d.Meta("abstract"),
		Label:     d.Meta("label"),
		PDFURL:    d.URL,
		PDFPath:   pdfPath,
	}, nil
}

// writeMetadata writes a Paper record to a YAML sidecar file.
func writeMetadata(paper *types.Paper, path string) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMetadata reads a Paper record from a YAML sidecar file.
func ReadMetadata(path string) (*types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}
