// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/triple-engine/internal/conllu"
	"github.com/pdiddy/triple-engine/internal/kb"
	"github.com/pdiddy/triple-engine/internal/knowledge"
	"github.com/pdiddy/triple-engine/internal/phrase"
	"github.com/pdiddy/triple-engine/internal/pipeline"
	"github.com/pdiddy/triple-engine/internal/rdf"
	"github.com/pdiddy/triple-engine/internal/secrets"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract and resolve triples from CoNLL-U sentences",
	Long: `Extract reads dependency parses in CoNLL-U format (from file, or stdin
when omitted), extracts subject-predicate-object triples from each
sentence, and resolves every component against the knowledge base.

Progress is reported on stderr; triples are written to --output or stdout.
With --store the triples are also recorded in the SQLite triple store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	phrasesPath, _ := cmd.Flags().GetString("phrases")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	useStore, _ := cmd.Flags().GetBool("store")

	sentences, err := readSentences(args)
	if err != nil {
		return err
	}

	kbCfg := cfg.KB
	kbCfg.UserAgent = loadedSecrets.UserAgent(kbCfg.UserAgent)
	if noCache {
		kbCfg.CacheTTL = 0
	}
	lookup, err := kb.Open(kbCfg, loadedSecrets.Get(secrets.WikimediaToken, ""), logger)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Tags:     cfg.Tags,
		Resolver: cfg.Resolver,
		Lookup:   lookup,
		Logger:   logger,
	}
	if phrasesPath != "" {
		m, err := phrase.LoadFile(phrasesPath, "")
		if err != nil {
			return err
		}
		opts.Phrases = m
	}
	engine := pipeline.New(opts)

	collector := &pipeline.Collector{}
	sinks := pipeline.Sinks{collector}
	if useStore {
		store, err := knowledge.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	summary, err := engine.Process(ctx, sentences, sinks, os.Stderr)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := rdf.NewMinter(cfg.RDF.BaseIRI).Encode(out, format, collector.Results); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d sentence(s) failed", summary.Failed)
	}
	return nil
}

func readSentences(args []string) ([]conllu.Sentence, error) {
	if len(args) == 0 || args[0] == "-" {
		return conllu.Read(os.Stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	sentences, err := conllu.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return sentences, nil
}

func init() {
	extractCmd.Flags().String("kb", "", "knowledge base: wikipedia, dictionary or none")
	extractCmd.Flags().String("dictionary", "", "YAML dictionary file for --kb dictionary")
	extractCmd.Flags().String("phrases", "", "phrase list merged into single tokens before extraction")
	extractCmd.Flags().String("format", rdf.FormatNTriples, "output format: ntriples, json or yaml")
	extractCmd.Flags().String("output", "", "output file (default: stdout)")
	extractCmd.Flags().Bool("store", false, "also record triples in the triple store")
	extractCmd.Flags().Float64("threshold", 0, "dissimilarity below which a match becomes a reference")
	extractCmd.Flags().Duration("lookup-timeout", 0, "timeout for each knowledge-base lookup")
	extractCmd.Flags().Bool("no-cache", false, "disable the cross-sentence lookup cache")

	_ = viper.BindPFlag("kb.backend", extractCmd.Flags().Lookup("kb"))
	_ = viper.BindPFlag("kb.dictionary_path", extractCmd.Flags().Lookup("dictionary"))
	_ = viper.BindPFlag("resolver.threshold", extractCmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("resolver.lookup_timeout", extractCmd.Flags().Lookup("lookup-timeout"))

	rootCmd.AddCommand(extractCmd)
}
