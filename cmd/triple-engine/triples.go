// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/triple-engine/internal/knowledge"
	"github.com/pdiddy/triple-engine/internal/rdf"
)

var triplesCmd = &cobra.Command{
	Use:   "triples",
	Short: "Query and export the triple store",
	Long: `Triples works with the SQLite triple store filled by "extract --store".
Use subcommands to query triples by slot, export them, or show counts.`,
}

// --- query subcommand ---

var triplesQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List stored triples matching slot filters",
	Long: `Query lists stored triples. Slot filters match case-insensitive
substrings of the stored reference or literal, so --object Lisbon finds
both "Lisbon Portela Airport" and https://en.wikipedia.org/wiki/Lisbon_Airport.`,
	RunE: runTriplesQuery,
}

func runTriplesQuery(cmd *cobra.Command, args []string) error {
	store, err := knowledge.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(context.Background(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(os.Stdout, results, jsonOutput)
}

func formatQueryOutput(w io.Writer, results []knowledge.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []knowledge.QueryResult{}
		}
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %-40s  %-16s  %s\n", "Sentence", "Subject", "Predicate", "Object")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range results {
		fmt.Fprintf(w, "%-12s  %-40s  %-16s  %s\n",
			truncate(r.SentenceID, 12),
			truncate(r.Subject.String(), 40),
			truncate(r.Predicate.String(), 16),
			r.Object.String())
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var triplesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored triples as N-Triples, JSON or YAML",
	Long: `Export writes the stored triples (or a filtered subset) to --output or
stdout. Supports the same filter flags as query.`,
	RunE: runTriplesExport,
}

func runTriplesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	store, err := knowledge.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := store.Export(context.Background(), out, format, rdf.NewMinter(cfg.RDF.BaseIRI), queryOptsFromFlags(cmd)); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", outputPath)
	}
	return nil
}

// --- stats subcommand ---

var triplesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show triple store counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := knowledge.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("store:      %s\n", store.Path())
		fmt.Printf("sentences:  %d\n", st.Sentences)
		fmt.Printf("triples:    %d\n", st.Triples)
		fmt.Printf("references: %d\n", st.References)
		fmt.Printf("literals:   %d\n", st.Literals)
		return nil
	},
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command) knowledge.QueryOptions {
	subject, _ := cmd.Flags().GetString("subject")
	predicate, _ := cmd.Flags().GetString("predicate")
	object, _ := cmd.Flags().GetString("object")
	sentenceID, _ := cmd.Flags().GetString("sentence")
	limit, _ := cmd.Flags().GetInt("limit")

	return knowledge.QueryOptions{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		SentenceID: sentenceID,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("subject", "", "filter by subject substring")
	cmd.Flags().String("predicate", "", "filter by predicate substring")
	cmd.Flags().String("object", "", "filter by object substring")
	cmd.Flags().String("sentence", "", "filter by sentence ID")
}

func init() {
	addFilterFlags(triplesQueryCmd)
	triplesQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	triplesQueryCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(triplesExportCmd)
	triplesExportCmd.Flags().String("format", rdf.FormatNTriples, "export format: ntriples, json or yaml")
	triplesExportCmd.Flags().String("output", "", "output file (default: stdout)")

	triplesCmd.AddCommand(triplesQueryCmd)
	triplesCmd.AddCommand(triplesExportCmd)
	triplesCmd.AddCommand(triplesStatsCmd)

	rootCmd.AddCommand(triplesCmd)
}
