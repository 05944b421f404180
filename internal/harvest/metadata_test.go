// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/paper-harvest/pkg/types"
)

func TestBuildPaper(t *testing.T) {
	d := types.Descriptor{
		ID:    "smith2023attention",
		Title: "Attention Revisited",
		URL:   "https://papers.example.org/smith2023.pdf",
		Metadata: map[string]string{
			"author":    "Alice Smith, Bob Jones",
			"year":      "2023",
			"booktitle": "Proceedings of ExampleConf",
			"pages":     "101-115",
			"url":       "https://papers.example.org/smith2023.html",
		},
	}

	p, err := buildPaper(d, "/downloads/smith2023attention.pdf")
	if err != nil {
		t.Fatalf("buildPaper: %v", err)
	}
	if p.ID != d.ID || p.Title != d.Title {
		t.Errorf("identity fields = %s/%s", p.ID, p.Title)
	}
	if p.Author != "Alice Smith, Bob Jones" || p.Year != "2023" {
		t.Errorf("author/year = %q/%q", p.Author, p.Year)
	}
	if p.URL != "https://papers.example.org/smith2023.html" {
		t.Errorf("landing URL = %q, want the metadata url", p.URL)
	}
	if p.PDFURL != d.URL {
		t.Errorf("PDFURL = %q, want the download URL", p.PDFURL)
	}
	if p.PDFPath != "/downloads/smith2023attention.pdf" {
		t.Errorf("PDFPath = %q", p.PDFPath)
	}
	// Volume defaults to the year when not given.
	if p.Volume != "2023" {
		t.Errorf("Volume = %q, want 2023", p.Volume)
	}
}

func TestBuildPaperMissingAuthor(t *testing.T) {
	d := types.Descriptor{
		ID:       "a",
		URL:      "https://papers.example.org/a.pdf",
		Metadata: map[string]string{"year": "2023", "author": "   "},
	}
	_, err := buildPaper(d, "a.pdf")
	if err == nil || !strings.Contains(err.Error(), "author") {
		t.Errorf("err = %v, want missing author", err)
	}
}

func TestBuildPaperBadYear(t *testing.T) {
	for _, year := range []string{"", "23", "20234", "twenty"} {
		d := types.Descriptor{
			ID:       "a",
			URL:      "https://papers.example.org/a.pdf",
			Metadata: map[string]string{"author": "Alice Smith", "year": year},
		}
		if _, err := buildPaper(d, "a.pdf"); err == nil {
			t.Errorf("year %q: expected validation error", year)
		}
	}
}

func TestMetadataSidecarRoundTrip(t *testing.T) {
	d := types.Descriptor{
		ID:    "smith2023attention",
		Title: "Attention Revisited",
		URL:   "https://papers.example.org/smith2023.pdf",
		Metadata: map[string]string{
			"author":   "Alice Smith",
			"year":     "2023",
			"abstract": "We revisit attention.\nIt still works.",
		},
	}
	p, err := buildPaper(d, "/downloads/smith2023attention.pdf")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "smith2023attention.yaml")
	if err := writeMetadata(p, path); err != nil {
		t.Fatalf("writeMetadata: %v", err)
	}
	got, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if *got != *p {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}
