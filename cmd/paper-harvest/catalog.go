// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvest/internal/catalog"
	"github.com/pdiddy/paper-harvest/internal/harvest"
	"github.com/pdiddy/paper-harvest/internal/progress"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local paper catalog (ingest, list)",
	Long: `Catalog maintains a SQLite database of harvested papers for post-run
queries. Ingest reads the checkpoint and metadata sidecars; list prints
the catalog contents.`,
}

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Upsert harvested papers into the catalog",
	RunE:  runCatalogIngest,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the cataloged papers",
	RunE:  runCatalogList,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	downloadDir, _ := cmd.Flags().GetString("download-dir")

	records, err := progress.ReadRecords(filepath.Join(downloadDir, progress.CheckpointFile))
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	metaDir := filepath.Join(downloadDir, harvest.MetadataDir)
	var papers []*types.Paper
	for id, rec := range records {
		if rec.Status != types.StatusSuccess {
			continue
		}
		paper, err := harvest.ReadMetadata(filepath.Join(metaDir, id+".yaml"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: no metadata sidecar for %s, not cataloged\n", id)
			continue
		}
		papers = append(papers, paper)
	}

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Upsert(cmd.Context(), papers)
	if err != nil {
		return err
	}
	fmt.Printf("Cataloged %d paper(s)\n", n)
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-6s  %-50s  %s\n", "ID", "Year", "Title", "Author")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, p := range papers {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-6s  %-50s  %s\n", p.ID, p.Year, title, p.Author)
	}
	fmt.Fprintf(os.Stdout, "\n%d paper(s)\n", len(papers))
	return nil
}

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	dir, _ := cmd.Flags().GetString("catalog-dir")
	if dir == "" {
		dir = "catalog"
	}
	return catalog.Open(types.CatalogConfig{CatalogDir: dir})
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory containing catalog.db")
	catalogIngestCmd.Flags().String("download-dir", "downloads", "directory holding the checkpoint and sidecars")
	catalogListCmd.Flags().Bool("json", false, "output papers as JSON")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}
