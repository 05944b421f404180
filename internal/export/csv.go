// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export accumulates metadata rows in discovery order and writes
// the consolidated CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sync"

	"github.com/pdiddy/paper-harvest/internal/fsutil"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

// Columns is the fixed CSV header, matching the Paper field order.
var Columns = []string{
	"id", "title", "author", "booktitle", "editor", "pages", "publisher",
	"url", "volume", "year", "abstract", "label", "pdf_url", "pdf_path",
}

// Aggregator collects rows keyed by discovery index so that the export
// order is independent of worker completion order. Safe for concurrent use.
type Aggregator struct {
	mu   sync.Mutex
	rows []*types.Paper
}

// NewAggregator sizes the aggregator for n descriptors.
func NewAggregator(n int) *Aggregator {
	return &Aggregator{rows: make([]*types.Paper, n)}
}

// Put stores the row for the descriptor at discovery index i.
func (a *Aggregator) Put(i int, p *types.Paper) {
	a.mu.Lock()
	a.rows[i] = p
	a.mu.Unlock()
}

// Rows returns the collected rows in discovery order, omitting slots for
// items that produced no row (failed or still pending).
func (a *Aggregator) Rows() []*types.Paper {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*types.Paper, 0, len(a.rows))
	for _, p := range a.rows {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Marshal renders the header and rows as CSV bytes. Escaping follows
// encoding/csv: fields containing the delimiter, quotes, or newlines are
// quoted with embedded quotes doubled. Identical rows yield identical
// bytes, so re-export is idempotent.
func Marshal(rows []*types.Paper) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range rows {
		record := []string{
			p.ID, p.Title, p.Author, p.Booktitle, p.Editor, p.Pages,
			p.Publisher, p.URL, p.Volume, p.Year, p.Abstract, p.Label,
			p.PDFURL, p.PDFPath,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing CSV row %s: %w", p.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV atomically writes the rows to path.
func WriteCSV(path string, rows []*types.Paper) error {
	data, err := Marshal(rows)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, data)
}
