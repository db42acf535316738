package main

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/spellpane/internal/config"
	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/suggest"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

// session is one document bound to a workflow.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	doc      *document.Document
	workflow *workflow.Workflow
}

// openSession loads configuration and the document at path, and builds the
// workflow that checks it.
func openSession(path string) (*session, *config.Manager, error) {
	mgr, _, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg := mgr.Get()
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, nil, err
	}

	wf, err := workflow.New(workflow.Config{
		Host:      doc,
		Suggester: suggest.NewClient(cfg.Service.URL, cfg.Service.Timeout),
		TopN:      cfg.Service.TopN,
		NoticeTTL: cfg.Pane.NoticeTTL,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return &session{cfg: cfg, logger: logger, doc: doc, workflow: wf}, mgr, nil
}

// scan runs one spell check. Failures the workflow recovers from are logged
// and reported in the returned report.
func (s *session) scan(ctx context.Context) (*workflow.Report, error) {
	report, err := s.workflow.Scan(ctx)
	if err != nil && workflow.Recoverable(err) {
		s.logger.Warn("scan finished with error", "error", err)
	}
	return report, err
}
