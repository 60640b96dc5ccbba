package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"supportdesk/internal/gateway"

	"github.com/spf13/cobra"
)

// modelsCmd lists the models visible to the configured key
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models the configured API key can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		gw := gateway.New(ctx, cfg.LLM)

		models, err := gw.Models(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODEL\tACTIONS")
		for _, m := range models {
			marker := ""
			if m.Name == gw.Model() {
				marker = " (configured)"
			}
			fmt.Fprintf(tw, "%s%s\t%s\n", m.Name, marker, strings.Join(m.Actions, ","))
		}
		return tw.Flush()
	},
}
