package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/pane"
	"github.com/jackzampolin/spellpane/internal/svcctx"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

// PaneResponse is the task pane as rendered: pending entries, the banner
// notice and the progress flag.
type PaneResponse struct {
	Entries []pane.Entry `json:"entries" yaml:"entries"`
	Notice  *pane.Notice `json:"notice,omitempty" yaml:"notice,omitempty"`
	Busy    bool         `json:"busy" yaml:"busy"`
}

func paneState(wf *workflow.Workflow) PaneResponse {
	resp := PaneResponse{Entries: wf.Entries(), Busy: wf.Busy()}
	if n, ok := wf.Notices().Current(); ok {
		resp.Notice = &n
	}
	return resp
}

// PaneEndpoint handles GET /api/pane.
type PaneEndpoint struct{}

func (e *PaneEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/pane", e.handler
}

func (e *PaneEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get the task pane
//	@Tags		pane
//	@Produce	json
//	@Success	200	{object}	PaneResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/pane [get]
func (e *PaneEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paneState(svcctx.WorkflowFrom(r.Context())))
}

func (e *PaneEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "pane",
		Short: "Show the pending entries and the current notice",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PaneResponse
			if err := client.Get(cmd.Context(), "/api/pane", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

