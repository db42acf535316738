package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server     string `json:"server" yaml:"server"`
	Document   string `json:"document" yaml:"document"`
	ServiceURL string `json:"service_url" yaml:"service_url"`
	Busy       bool   `json:"busy" yaml:"busy"`
	Entries    int    `json:"entries" yaml:"entries"`
	TopN       int    `json:"top_n" yaml:"top_n"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Document, suggestion service and scan progress
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:     "running",
		Document:   "not_loaded",
		ServiceURL: svcctx.ServiceURLFrom(r.Context()),
	}

	if doc := svcctx.DocumentFrom(r.Context()); doc != nil {
		resp.Document = doc.Path()
		if resp.Document == "" {
			resp.Document = "in_memory"
		}
	}
	if wf := svcctx.WorkflowFrom(r.Context()); wf != nil {
		resp.Busy = wf.Busy()
		resp.Entries = len(wf.Entries())
		resp.TopN = wf.TopN()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server:   %s\n", resp.Server)
			fmt.Printf("Document: %s\n", resp.Document)
			fmt.Printf("Service:  %s\n", resp.ServiceURL)
			fmt.Printf("Busy:     %t\n", resp.Busy)
			fmt.Printf("Entries:  %d\n", resp.Entries)
			return nil
		},
	}
}
