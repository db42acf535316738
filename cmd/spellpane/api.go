package main

import (
	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if mgr, _, err := loadConfig(); err == nil {
		return mgr.Get().ServerURL()
	}
	return "http://127.0.0.1:8080"
}

func init() {
	apiCmd := api.NewRegistry(endpoints.All()...).BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "", "Server URL (default: from server.host and server.port)",
	)

	rootCmd.AddCommand(apiCmd)
}
