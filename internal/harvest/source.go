// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-harvest/pkg/types"
)

// LoadDescriptors reads the descriptor list from a YAML file. File order
// is the discovery order the pipeline preserves in its outputs. Every
// descriptor must carry a unique non-empty id and a download URL.
func LoadDescriptors(path string) ([]types.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor file: %w", err)
	}

	var descs []types.Descriptor
	if err := yaml.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("parsing descriptor file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(descs))
	for i, d := range descs {
		if d.ID == "" {
			return nil, fmt.Errorf("descriptor %d: missing id", i)
		}
		if d.URL == "" {
			return nil, fmt.Errorf("descriptor %q: missing url", d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate descriptor id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return descs, nil
}
