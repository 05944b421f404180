// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Paper holds the consolidated metadata row for one harvested paper.
// Field names mirror the CSV export schema: one Paper produces one row.
type Paper struct {
	// ID is the unique item identifier from the descriptor source.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Author is the comma-joined author list.
	Author string `json:"author" yaml:"author"`

	// Booktitle is the venue name (e.g. "NeurIPS").
	Booktitle string `json:"booktitle" yaml:"booktitle"`

	// Editor and Pages are carried for BibTeX compatibility; usually empty.
	Editor string `json:"editor" yaml:"editor"`
	Pages  string `json:"pages" yaml:"pages"`

	// Publisher is the publishing body (e.g. "NeurIPS Foundation").
	Publisher string `json:"publisher" yaml:"publisher"`

	// URL is the abstract/landing page for the paper.
	URL string `json:"url" yaml:"url"`

	// Volume and Year are the proceedings volume and publication year.
	Volume string `json:"volume" yaml:"volume"`
	Year   string `json:"year" yaml:"year"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Label tags the row with its collection (e.g. "NeurIPS").
	Label string `json:"label" yaml:"label"`

	// PDFURL is the URL the PDF was (or would be) downloaded from.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`
}
