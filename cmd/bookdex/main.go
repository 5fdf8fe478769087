// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookdex CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookdex/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the bookdex CLI.
var rootCmd = &cobra.Command{
	Use:   "bookdex",
	Short: "Resolve book metadata from multiple sources into one catalog",
	Long: `bookdex turns free-text book queries (a title, an author string, or an
ISBN) into canonical catalog records. It splits the query into title and
authors, tries configured metadata providers in priority order, validates
ISBN consistency across sources, merges the winning record into a local
SQLite catalog, downloads the cover, and assigns a Chinese Library
Classification code.

Each entry point is a subcommand: resolve for ad-hoc queries, import for
batch files, watch for a drop directory, and books for catalog management.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookdex.yaml or ~/.config/bookdex/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for the catalog database and covers (default: data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookdex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookdex"))
		}
	}

	viper.SetEnvPrefix("BOOKDEX")
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
