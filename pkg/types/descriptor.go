// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Descriptor is the input record for one paper before fetching. Descriptors
// are produced by the discovery collaborator and are read-only to the
// pipeline; order in the source sequence is the stable discovery order.
type Descriptor struct {
	// ID uniquely identifies the item; the download file is named {ID}.pdf.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as discovered.
	Title string `json:"title" yaml:"title"`

	// URL is the PDF download location.
	URL string `json:"url" yaml:"url"`

	// Metadata carries extra fields keyed by CSV column name
	// (author, year, booktitle, abstract, ...).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Meta returns the metadata value for key, or "" when absent.
func (d Descriptor) Meta(key string) string {
	return d.Metadata[key]
}
