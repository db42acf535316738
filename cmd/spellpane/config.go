package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the home directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, h, err := loadConfig()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := loadConfig()
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List every key with its default value",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tDEFAULT\tDESCRIPTION")
		for _, e := range config.DefaultEntries() {
			fmt.Fprintf(w, "%s\t%v\t%s\n", e.Key, e.Value, e.Description)
		}
		w.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key and write the config file",
	Long: `Set a key and write the configuration back to the file it was loaded
from, or to ~/.spellpane/config.yaml. A running server picks up
service.top_n and pane.notice_ttl without a restart.

Examples:
  spellpane config set service.top_n 3
  spellpane config set service.url http://10.0.0.5:120`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, h, err := loadConfig()
		if err != nil {
			return err
		}
		path := mgr.ConfigFileUsed()
		if path == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}
		if err := mgr.Set(args[0], args[1], path); err != nil {
			return err
		}
		fmt.Printf("%s = %v (%s)\n", args[0], mgr.Value(args[0]), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd, configShowCmd, configDefaultsCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
