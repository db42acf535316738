package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/svcctx"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

// ActionResponse is the result of a pane action. Outcome is also set when
// the word was no longer in the document.
type ActionResponse struct {
	Outcome *workflow.Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Pane    PaneResponse      `json:"pane" yaml:"pane"`
	Error   string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// ActionEndpoint handles POST /api/actions.
type ActionEndpoint struct{}

func (e *ActionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/actions", e.handler
}

func (e *ActionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Act on a pane entry
//	@Description	Replace every occurrence of the word with a candidate, or add the word to the dictionary
//	@Tags			pane
//	@Accept			json
//	@Produce		json
//	@Param			request	body		workflow.Action	true	"Action"
//	@Success		200		{object}	ActionResponse
//	@Failure		400		{object}	ActionResponse
//	@Failure		404		{object}	ActionResponse	"No pending entry for the word"
//	@Failure		409		{object}	ActionResponse	"Word no longer in the document"
//	@Failure		502		{object}	ActionResponse	"Suggestion service failed"
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/actions [post]
func (e *ActionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var act workflow.Action
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if act.Word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	wf := svcctx.WorkflowFrom(r.Context())
	outcome, err := wf.Dispatch(r.Context(), act)
	if err != nil {
		writeJSON(w, workflowStatus(err), ActionResponse{Outcome: outcome, Pane: paneState(wf), Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Outcome: outcome, Pane: paneState(wf)})
}

func (e *ActionEndpoint) Command(getServerURL func() string) *cobra.Command {
	var replace string
	var add bool
	cmd := &cobra.Command{
		Use:   "act <word>",
		Short: "Replace a word or add it to the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act := workflow.Action{Word: args[0]}
			switch {
			case add && replace != "":
				return fmt.Errorf("--replace and --add are mutually exclusive")
			case add:
				act.Kind = workflow.ActionAddToDictionary
			case replace != "":
				act.Kind = workflow.ActionReplace
				act.Candidate = replace
			default:
				return fmt.Errorf("one of --replace or --add is required")
			}

			client := api.NewClient(getServerURL())
			var resp ActionResponse
			if err := client.Post(cmd.Context(), "/api/actions", act, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&replace, "replace", "", "Candidate to replace the word with")
	cmd.Flags().BoolVar(&add, "add", false, "Add the word to the dictionary")
	return cmd
}
