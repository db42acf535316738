package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/svcctx"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

// ScanResponse is the result of a spell check. On failure Error is set and
// Pane still carries the notice that explains it.
type ScanResponse struct {
	Report *workflow.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Pane   PaneResponse     `json:"pane" yaml:"pane"`
	Error  string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScanEndpoint handles POST /api/scan.
type ScanEndpoint struct{}

func (e *ScanEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/scan", e.handler
}

func (e *ScanEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Run the spell check
//	@Description	Reads the document, asks the suggestion service, marks misspelled words and rebuilds the pane. Concurrent calls share one scan.
//	@Tags			pane
//	@Produce		json
//	@Success		200	{object}	ScanResponse
//	@Failure		422	{object}	ScanResponse	"Document has no text"
//	@Failure		500	{object}	ScanResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/scan [post]
func (e *ScanEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())

	report, err := wf.Scan(r.Context())
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Warn("scan failed", "error", err)
		writeJSON(w, workflowStatus(err), ScanResponse{Pane: paneState(wf), Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ScanResponse{Report: report, Pane: paneState(wf)})
}

func (e *ScanEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run the spell check",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ScanResponse
			if err := client.Post(cmd.Context(), "/api/scan", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
