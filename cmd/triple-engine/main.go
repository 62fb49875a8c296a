// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the triple-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/triple-engine/internal/config"
	"github.com/pdiddy/triple-engine/internal/logging"
	"github.com/pdiddy/triple-engine/internal/secrets"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the effective configuration, loaded before every command.
	cfg types.Config

	logger   *slog.Logger
	closeLog = func() error { return nil }

	// loadedSecrets holds credentials loaded from the secrets directory.
	loadedSecrets secrets.Secrets
)

// rootCmd is the base command for the triple-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "triple-engine",
	Short: "Extract knowledge-base triples from dependency-parsed sentences",
	Long: `triple-engine reads dependency parses in CoNLL-U format, extracts
subject-predicate-object triples from each sentence, and resolves every
component to a knowledge-base reference (Wikipedia or a local dictionary)
or keeps it as a literal.

Results can be printed as N-Triples, JSON or YAML and recorded in a local
SQLite triple store for later queries and exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		l, closer, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		logger, closeLog = l, closer
		slog.SetDefault(logger)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", s.Keys())
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./triple-engine.yaml or ~/.config/triple-engine/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of credential files")
	rootCmd.PersistentFlags().String("store-dir", "", "triple store directory (contains triples.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("triple-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "triple-engine"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
