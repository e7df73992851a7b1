// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the section-engine CLI.
// It indexes a content tree and answers collection-section queries from
// the command line or over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-engine/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// cfgViper uses "::" as key delimiter so permission keys such as
// "pages.sort" survive as single map keys.
var cfgViper = viper.NewWithOptions(viper.KeyDelimiter("::"))

// rootCmd is the base command for the section-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "section-engine",
	Short: "Collection-section queries for a file-based CMS panel",
	Long: `section-engine indexes a file-based content tree into SQLite and lists
the child pages or files of a node the way the panel's pages and files
sections show them: filtered by status, template and permissions, sorted,
paginated and projected into view-model items.

Run ingest after content changes, then query sections with the section
subcommands or serve them over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Init(cfg.Logging.Level, cfg.Logging.JSON, os.Stderr)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./section-engine.yaml or ~/.config/section-engine/section-engine.yaml)")
	flags.String("content-dir", "content", "root of the content tree")
	flags.String("blueprints-dir", "blueprints", "directory holding site.yaml, pages/ and files/")
	flags.String("index-dir", "index", "directory of the SQLite content index")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "write logs as JSON lines")

	for key, flag := range map[string]string{
		"content_dir":    "content-dir",
		"blueprints_dir": "blueprints-dir",
		"index_dir":      "index-dir",
		"logging::level": "log-level",
		"logging::json":  "log-json",
	} {
		_ = cfgViper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		cfgViper.SetConfigFile(cfgFile)
	} else {
		cfgViper.SetConfigName("section-engine")
		cfgViper.SetConfigType("yaml")
		cfgViper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			cfgViper.AddConfigPath(filepath.Join(home, ".config", "section-engine"))
		}
	}

	cfgViper.SetEnvPrefix("SECTION_ENGINE")
	cfgViper.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))
	cfgViper.AutomaticEnv()

	if err := cfgViper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", cfgViper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
