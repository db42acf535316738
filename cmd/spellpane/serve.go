package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/backend"
	"github.com/jackzampolin/spellpane/internal/server"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

var (
	serveHost        string
	servePort        string
	serveDoc         string
	serveWatch       bool
	serveWaitService time.Duration
	serveNoScan      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the spelling task pane for a document",
	Long: `Start the task pane HTTP server for one document.

The server provides:
  - /            - The task pane page
  - /api/scan    - Run the spell check
  - /api/pane    - Pending words, candidates and the current notice
  - /api/actions - Replace a word or add it to the dictionary
  - /health      - Basic server health check

With --watch the document is reloaded and checked again whenever its file
changes on disk. Configuration changes (service.top_n, pane.notice_ttl)
apply without a restart.

Examples:
  spellpane serve --doc letter.txt              # Serve on 127.0.0.1:8080
  spellpane serve --doc letter.txt --watch      # Follow edits to the file
  spellpane serve --doc page.html --port 3000   # HTML is read-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if serveDoc == "" {
			return errors.New("--doc is required")
		}
		sess, mgr, err := openSession(serveDoc)
		if err != nil {
			return err
		}
		cfg := sess.cfg
		if serveHost == "" {
			serveHost = cfg.Server.Host
		}
		if servePort == "" {
			servePort = cfg.Server.Port
		}

		if serveWaitService > 0 {
			sess.logger.Info("waiting for suggestion service", "url", cfg.Service.URL)
			if err := backend.WaitReady(ctx, cfg.Service.URL, serveWaitService); err != nil {
				return err
			}
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Workflow:      sess.workflow,
			Document:      sess.doc,
			ServiceURL:    cfg.Service.URL,
			Watch:         serveWatch,
			ConfigManager: mgr,
			Logger:        sess.logger,
		})
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		if !serveNoScan {
			if _, err := sess.scan(ctx); err != nil && !workflow.Recoverable(err) {
				return err
			}
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port)")
	serveCmd.Flags().StringVar(&serveDoc, "doc", "", "Document to check (.txt, .md, .html)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload and rescan the document when its file changes")
	serveCmd.Flags().DurationVar(&serveWaitService, "wait-service", 0, "Wait up to this long for the suggestion service")
	serveCmd.Flags().BoolVar(&serveNoScan, "no-scan", false, "Do not scan the document on startup")

	rootCmd.AddCommand(serveCmd)
}
