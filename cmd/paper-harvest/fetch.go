// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-harvest/internal/catalog"
	"github.com/pdiddy/paper-harvest/internal/export"
	"github.com/pdiddy/paper-harvest/internal/harvest"
	"github.com/pdiddy/paper-harvest/internal/progress"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultBackoffBase     = 1 * time.Second
	defaultRetryBudget     = 5 * time.Minute
	defaultConcurrency     = 5
	defaultMaxRetries      = 3
	defaultCheckpointEvery = 10
	defaultUserAgent       = "paper-harvest/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download papers from a descriptor file and export the CSV",
	Long: `Fetch reads a YAML descriptor file, downloads each paper PDF under
bounded concurrency, writes per-paper metadata sidecars, and exports the
consolidated CSV. Items already downloaded (or permanently failed) on a
prior run are skipped via the progress checkpoint.

Interrupting the run (Ctrl-C) lets in-flight downloads finish; the next
run resumes from the checkpoint.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("input", "", "descriptor file (YAML list of papers) (required)")
	fetchCmd.Flags().String("download-dir", "", "directory for PDFs, sidecars, and the checkpoint (default downloads)")
	fetchCmd.Flags().String("out", "", "CSV output path (default papers.csv)")
	fetchCmd.Flags().Int("concurrency", 0, "worker pool size (default 5)")
	fetchCmd.Flags().Int("max-retries", 0, "retry ceiling per item (default 3)")
	fetchCmd.Flags().Duration("backoff-base", 0, "exponential backoff base delay (default 1s)")
	fetchCmd.Flags().Duration("timeout", 0, "per-request HTTP timeout (default 30s)")
	fetchCmd.Flags().Duration("retry-budget", 0, "wall-clock retry cap per item (default 5m)")
	fetchCmd.Flags().Int("checkpoint-interval", 0, "completions between checkpoint writes (default 10)")
	fetchCmd.Flags().Bool("force", false, "re-fetch items recorded as done or permanently failed")
	fetchCmd.Flags().String("catalog-dir", "", "when set, upsert harvested rows into catalog-dir/catalog.db")
	_ = fetchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	descs, err := harvest.LoadDescriptors(input)
	if err != nil {
		return err
	}

	cfg := fetchConfig(cmd)
	outPath := stringSetting(cmd, "out", "out", "papers.csv")
	catalogDir := stringSetting(cmd, "catalog-dir", "catalog_dir", "")

	checkpointPath := filepath.Join(cfg.DownloadDir, progress.CheckpointFile)
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	tracker, err := progress.Load(checkpointPath, len(descs), cfg.CheckpointInterval, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: cfg.Timeout}

	result, err := harvest.Run(ctx, client, descs, cfg, tracker, os.Stdout)
	if err != nil {
		return err
	}

	if err := export.WriteCSV(outPath, result.Rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	fmt.Printf("Exported %d row(s) to %s\n", len(result.Rows), outPath)

	if catalogDir != "" {
		store, err := catalog.Open(types.CatalogConfig{CatalogDir: catalogDir})
		if err != nil {
			return err
		}
		defer store.Close()
		n, err := store.Upsert(cmd.Context(), result.Rows)
		if err != nil {
			return err
		}
		fmt.Printf("Cataloged %d paper(s)\n", n)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed", result.Failed)
	}
	return nil
}

// fetchConfig resolves the pipeline configuration: flag, then config
// file/env via viper, then the built-in default.
func fetchConfig(cmd *cobra.Command) types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:     durationSetting(cmd, "timeout", "request_timeout", defaultTimeout),
			UserAgent:   stringSetting(cmd, "", "user_agent", defaultUserAgent),
			BearerToken: downloadToken,
		},
		Concurrency:        intSetting(cmd, "concurrency", "concurrency", defaultConcurrency),
		MaxRetries:         intSetting(cmd, "max-retries", "max_retries", defaultMaxRetries),
		BackoffBase:        durationSetting(cmd, "backoff-base", "backoff_base", defaultBackoffBase),
		RetryBudget:        durationSetting(cmd, "retry-budget", "retry_budget", defaultRetryBudget),
		DownloadDir:        stringSetting(cmd, "download-dir", "download_dir", "downloads"),
		CheckpointInterval: intSetting(cmd, "checkpoint-interval", "checkpoint_interval", defaultCheckpointEvery),
		ForceRefetch:       boolSetting(cmd, "force", "force_refetch"),
	}
}

func intSetting(cmd *cobra.Command, flag, key string, def int) int {
	if flag != "" {
		if v, err := cmd.Flags().GetInt(flag); err == nil && v != 0 {
			return v
		}
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return def
}

func durationSetting(cmd *cobra.Command, flag, key string, def time.Duration) time.Duration {
	if flag != "" {
		if v, err := cmd.Flags().GetDuration(flag); err == nil && v != 0 {
			return v
		}
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return def
}

func stringSetting(cmd *cobra.Command, flag, key, def string) string {
	if flag != "" {
		if v, err := cmd.Flags().GetString(flag); err == nil && v != "" {
			return v
		}
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return def
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if flag != "" {
		if v, err := cmd.Flags().GetBool(flag); err == nil && v {
			return true
		}
	}
	return viper.GetBool(key)
}
