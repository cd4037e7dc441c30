// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the eol-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the eol-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "eol-engine",
	Short: "Discover hardware lifecycle dates from public vendor sources",
	Long: `eol-engine discovers End-of-Life, End-of-Sales, and End-of-Service dates
for hardware models by querying search engines and vendor documentation,
extracting lifecycle statements from the pages that come back, and merging
them into one summary record per model.

Each stage is a subcommand: scrape runs the discovery pipeline, batch packs
saved page content into token-budgeted prompt documents for external LLM
review, and results queries a finished run's records.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./eol-engine.yaml or ~/.config/eol-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("eol-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "eol-engine"))
		}
	}

	viper.SetEnvPrefix("EOL_ENGINE")
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
