package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a registry holding eps.
func NewRegistry(eps ...Endpoint) *Registry {
	r := &Registry{}
	for _, ep := range eps {
		r.Register(ep)
	}
	return r
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// initMiddleware wraps handlers that require a loaded document; nil leaves
// them unwrapped.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() && initMiddleware != nil {
			handler = initMiddleware(handler)
		}
		pattern := path
		if method != "" {
			pattern = method + " " + path
		}
		mux.HandleFunc(pattern, handler)
	}
}

// AddCommands attaches the CLI form of every endpoint to parent.
// getServerURL is called at runtime to get the server URL.
func (r *Registry) AddCommands(parent *cobra.Command, getServerURL func() string) *cobra.Command {
	for _, ep := range r.endpoints {
		if cmd := ep.Command(getServerURL); cmd != nil {
			parent.AddCommand(cmd)
		}
	}
	return parent
}

// BuildCommands returns the "api" command tree for all registered endpoints.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running task pane server",
		Long: `API commands call a running task pane server via HTTP.

These commands require a running server (spellpane serve --doc FILE).
Use --server to specify a custom server URL.

Examples:
  spellpane api health                   # Check server health
  spellpane api scan                     # Run the spell check
  spellpane api act teh --replace the    # Accept a suggestion
  spellpane api act kubectl --add        # Add a word to the dictionary`,
	}
	return r.AddCommands(apiCmd, getServerURL)
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
