// Command supportdesk is a terminal front end for the support assistant:
// an interactive chat, one-shot questions, FAQ browsing and model listing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"supportdesk/internal/config"
	"supportdesk/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	kbPath      string
	metricsAddr string
	envFile     string

	// Resolved in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "supportdesk",
	Short: "Customer support assistant backed by an FAQ corpus and Gemini",
	Long: `supportdesk answers support questions from a curated FAQ, falls back to a
Gemini model for everything else, and escalates to a human with a ticket
reference when the model is unavailable or the request needs a person.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		if err := logging.Initialize(cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Boot("config resolved (knowledge=%s, model=%s)", cfg.Knowledge.Source, cfg.LLM.Model)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&kbPath, "kb", "", "FAQ file (.yaml/.yml/.json) or SQLite database (.db/.sqlite)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the config")

	for _, c := range []*cobra.Command{rootCmd, chatCmd} {
		c.Flags().Bool("plain", false, "Line-based chat without the full-screen UI")
	}

	faqCmd.AddCommand(faqListCmd, faqSearchCmd, faqExportCmd)
	faqExportCmd.Flags().String("table", "faqs", "Destination table name")

	rootCmd.AddCommand(chatCmd, askCmd, faqCmd, modelsCmd)
}

// loadConfig resolves configuration: dotenv, then YAML, then flags.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if kbPath != "" {
		c.Knowledge.Path = kbPath
		c.Knowledge.Source = sourceForPath(kbPath)
	}
	if metricsAddr != "" {
		c.Metrics.Enabled = true
		c.Metrics.Addr = metricsAddr
	}
	if verbose {
		c.Logging.Level = "debug"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func sourceForPath(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(lower, ext) {
			return "sqlite"
		}
	}
	return "file"
}

// commandContext returns the command context or a background one in tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
