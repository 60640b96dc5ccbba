package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"supportdesk/internal/knowledge"

	"github.com/spf13/cobra"
)

// faqCmd browses the FAQ corpus
var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Browse the FAQ knowledge base",
	RunE:  runFAQList,
}

var faqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List FAQ entries in load order",
	RunE:  runFAQList,
}

var faqSearchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Fuzzy-search FAQ questions and categories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := knowledge.Open(commandContext(cmd), cfg.Knowledge)
		if err != nil {
			return err
		}
		results := kb.Search(strings.Join(args, " "))
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching FAQ entries.")
			return nil
		}
		writeResults(cmd.OutOrStdout(), results)
		return nil
	},
}

var faqExportCmd = &cobra.Command{
	Use:   "export <sqlite-path>",
	Short: "Write the loaded FAQ entries into a SQLite table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		kb, err := knowledge.Open(ctx, cfg.Knowledge)
		if err != nil {
			return err
		}
		table, _ := cmd.Flags().GetString("table")
		if err := knowledge.WriteSQLite(ctx, args[0], table, kb); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s (table %s).\n", kb.Len(), args[0], table)
		return nil
	},
}

func runFAQList(cmd *cobra.Command, args []string) error {
	kb, err := knowledge.Open(commandContext(cmd), cfg.Knowledge)
	if err != nil {
		return err
	}
	if kb.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "The knowledge base is empty.")
		return nil
	}
	writeResults(cmd.OutOrStdout(), kb.Search(""))
	return nil
}

func writeResults(w io.Writer, results []knowledge.SearchResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCATEGORY\tQUESTION")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Index+1, r.Entry.Category, r.Entry.Question)
	}
	_ = tw.Flush()
}
