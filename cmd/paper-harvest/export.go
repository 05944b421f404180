// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvest/internal/export"
	"github.com/pdiddy/paper-harvest/internal/harvest"
	"github.com/pdiddy/paper-harvest/internal/progress"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rebuild the CSV from the checkpoint and metadata sidecars",
	Long: `Export reads the progress checkpoint and the per-paper metadata
sidecars and writes the consolidated CSV without any network activity.
Exporting the same local state twice yields byte-identical output.

With --input, rows follow the descriptor file's discovery order;
otherwise they are ordered by id.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("download-dir", "downloads", "directory holding PDFs, sidecars, and the checkpoint")
	exportCmd.Flags().String("out", "papers.csv", "CSV output path")
	exportCmd.Flags().String("input", "", "descriptor file providing row order (optional)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	downloadDir, _ := cmd.Flags().GetString("download-dir")
	outPath, _ := cmd.Flags().GetString("out")
	input, _ := cmd.Flags().GetString("input")

	records, err := progress.ReadRecords(filepath.Join(downloadDir, progress.CheckpointFile))
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	ids := successOrder(records, input)
	metaDir := filepath.Join(downloadDir, harvest.MetadataDir)

	var rows []*types.Paper
	for _, id := range ids {
		paper, err := harvest.ReadMetadata(filepath.Join(metaDir, id+".yaml"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: no metadata sidecar for %s, row omitted\n", id)
			continue
		}
		rows = append(rows, paper)
	}

	if err := export.WriteCSV(outPath, rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	fmt.Printf("Exported %d row(s) to %s\n", len(rows), outPath)
	return nil
}

// successOrder returns the succeeded ids in discovery order when a
// descriptor file is given, otherwise sorted by id.
func successOrder(records map[string]progress.Record, input string) []string {
	var ids []string
	if input != "" {
		descs, err := harvest.LoadDescriptors(input)
		if err == nil {
			for _, d := range descs {
				if rec, ok := records[d.ID]; ok && rec.Status == types.StatusSuccess {
					ids = append(ids, d.ID)
				}
			}
			return ids
		}
		fmt.Fprintf(os.Stderr, "warning: %v, falling back to id order\n", err)
	}

	for id, rec := range records {
		if rec.Status == types.StatusSuccess {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
