// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-harvest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-harvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// downloadToken is the optional bearer token loaded from .secrets/ at startup.
var downloadToken string

// rootCmd is the base command for the paper-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-harvest",
	Short: "Bulk-download conference papers with resumable progress",
	Long: `paper-harvest turns a list of paper descriptors into downloaded PDFs and a
consolidated metadata CSV. Downloads run under bounded concurrency with
retry and backoff; progress is checkpointed so interrupted runs resume
without re-fetching finished items.

Each operation is a subcommand: fetch downloads and exports, export
rebuilds the CSV from local state, and catalog maintains a queryable
SQLite catalog of harvested papers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		token, err := secrets.Token(".secrets/")
		if err != nil {
			return err
		}
		downloadToken = token
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-harvest.yaml or ~/.config/paper-harvest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-harvest"))
		}
	}

	viper.SetEnvPrefix("PAPER_HARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
