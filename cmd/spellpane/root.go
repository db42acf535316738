package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/config"
	"github.com/jackzampolin/spellpane/internal/home"
	"github.com/jackzampolin/spellpane/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "spellpane",
	Short: "Spelling task pane for plain-text and HTML documents",
	Long: `Spellpane checks the spelling of a document against a suggestion service.

It marks misspelled words with a wavy underline and lists them in a task
pane with ranked replacement candidates. Each word can be replaced across
the whole document or added to the personal dictionary.

The pane is served over HTTP (spellpane serve) and every pane action is
also a CLI command (spellpane api ...). A reference suggestion service
ships in the same binary (spellpane backend).`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.spellpane/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "spellpane home directory (default: ~/.spellpane)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (default: log_level from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads configuration from --config, else the home directory's
// config file when it exists, else the default search path.
func loadConfig() (*config.Manager, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, err
	}
	return mgr, h, nil
}

// newLogger builds the process logger. --log-level wins over the config.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	name := logLevel
	if name == "" {
		name = cfg.LogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", name)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})), nil
}
