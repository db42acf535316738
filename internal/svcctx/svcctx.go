// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Workflow   *workflow.Workflow
	Document   *document.Document
	ServiceURL string
	Logger     *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// WorkflowFrom extracts the spell-check workflow from context.
func WorkflowFrom(ctx context.Context) *workflow.Workflow {
	if s := ServicesFrom(ctx); s != nil {
		return s.Workflow
	}
	return nil
}

// DocumentFrom extracts the open document from context.
func DocumentFrom(ctx context.Context) *document.Document {
	if s := ServicesFrom(ctx); s != nil {
		return s.Document
	}
	return nil
}

// ServiceURLFrom extracts the suggestion service URL from context.
func ServiceURLFrom(ctx context.Context) string {
	if s := ServicesFrom(ctx); s != nil {
		return s.ServiceURL
	}
	return ""
}

// LoggerFrom extracts the logger from context.
// Returns slog.Default() if not present.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
