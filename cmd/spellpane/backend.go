package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/backend"
)

var (
	backendHost    string
	backendPort    string
	backendLexicon string
	serviceURL     string
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the reference suggestion service",
	Long: `Run the bundled suggestion service that the task pane talks to.

Candidates come from a word-frequency lexicon ("word count" per line), ranked
by edit distance and then frequency. Words added to the dictionary are kept in
Redis when backend.redis_addr is set, otherwise in ~/.spellpane/data.

The subcommands call a running service (--service, default: service.url).

Examples:
  spellpane backend                              # Listen on 127.0.0.1:120
  spellpane backend --port 9120 --lexicon en.txt
  spellpane backend suggest teh quikc            # Ask a running service
  spellpane backend add-word kubectl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, h, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		bcfg := cfg.Backend
		if backendLexicon != "" {
			bcfg.LexiconPath = backendLexicon
		}
		if backendHost == "" {
			backendHost = bcfg.Host
		}
		if backendPort == "" {
			backendPort = bcfg.Port
		}

		svc, err := backend.Open(ctx, bcfg, h, logger)
		if err != nil {
			return err
		}
		srv, err := backend.New(backend.Config{
			Host:    backendHost,
			Port:    backendPort,
			Service: svc,
			Logger:  logger,
		})
		if err != nil {
			svc.Close()
			return err
		}
		return srv.Start(ctx)
	},
}

// getServiceURL returns --service, or service.url from the config.
func getServiceURL() string {
	if serviceURL != "" {
		return serviceURL
	}
	if mgr, _, err := loadConfig(); err == nil {
		return mgr.Get().Service.URL
	}
	return "http://127.0.0.1:120"
}

func init() {
	backendCmd.Flags().StringVar(&backendHost, "host", "", "Host to bind to (default: backend.host)")
	backendCmd.Flags().StringVar(&backendPort, "port", "", "Port to listen on (default: backend.port)")
	backendCmd.Flags().StringVar(&backendLexicon, "lexicon", "", "Lexicon file (default: backend.lexicon_path)")
	backendCmd.PersistentFlags().StringVar(&serviceURL, "service", "", "Suggestion service URL for subcommands (default: service.url)")

	api.NewRegistry(backend.Endpoints(nil)...).AddCommands(backendCmd, getServiceURL)
	rootCmd.AddCommand(backendCmd)
}
