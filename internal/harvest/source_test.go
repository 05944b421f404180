// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDescriptorFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDescriptors(t *testing.T) {
	path := writeDescriptorFile(t, `
- id: smith2023attention
  title: Attention Revisited
  url: https://papers.example.org/smith2023.pdf
  metadata:
    author: Alice Smith
    year: "2023"
    booktitle: Proceedings of ExampleConf
- id: jones2024scaling
  title: Scaling Laws for Everything
  url: https://papers.example.org/jones2024.pdf
  metadata:
    author: Bob Jones
    year: "2024"
`)

	descs, err := LoadDescriptors(path)
	if err != nil {
		t.Fatalf("LoadDescriptors: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("len(descs) = %d, want 2", len(descs))
	}
	if descs[0].ID != "smith2023attention" || descs[1].ID != "jones2024scaling" {
		t.Errorf("file order not preserved: %s, %s", descs[0].ID, descs[1].ID)
	}
	if descs[0].Meta("booktitle") != "Proceedings of ExampleConf" {
		t.Errorf("metadata lookup = %q", descs[0].Meta("booktitle"))
	}
}

func TestLoadDescriptorsMissingID(t *testing.T) {
	path := writeDescriptorFile(t, `
- title: No ID Here
  url: https://papers.example.org/x.pdf
`)
	_, err := LoadDescriptors(path)
	if err == nil || !strings.Contains(err.Error(), "missing id") {
		t.Errorf("err = %v, want missing id", err)
	}
}

func TestLoadDescriptorsMissingURL(t *testing.T) {
	path := writeDescriptorFile(t, `
- id: smith2023attention
  title: No URL Here
`)
	_, err := LoadDescriptors(path)
	if err == nil || !strings.Contains(err.Error(), "missing url") {
		t.Errorf("err = %v, want missing url", err)
	}
}

func TestLoadDescriptorsDuplicateID(t *testing.T) {
	path := writeDescriptorFile(t, `
- id: smith2023attention
  url: https://papers.example.org/a.pdf
- id: smith2023attention
  url: https://papers.example.org/b.pdf
`)
	_, err := LoadDescriptors(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("err = %v, want duplicate id", err)
	}
}

func TestLoadDescriptorsMissingFile(t *testing.T) {
	_, err := LoadDescriptors(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
