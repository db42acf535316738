package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/svcctx"
)

// DocumentResponse is the document text with its underlines.
type DocumentResponse struct {
	Path   string          `json:"path" yaml:"path"`
	Text   string          `json:"text" yaml:"text"`
	Spans  []document.Span `json:"spans" yaml:"spans"`
	Marked []string        `json:"marked" yaml:"marked"`
}

// DocumentEndpoint handles GET /api/document.
type DocumentEndpoint struct{}

func (e *DocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/document", e.handler
}

func (e *DocumentEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get the document
//	@Tags		document
//	@Produce	json
//	@Success	200	{object}	DocumentResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/document [get]
func (e *DocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	doc := svcctx.DocumentFrom(r.Context())
	spans := doc.Spans()
	if spans == nil {
		spans = []document.Span{}
	}
	writeJSON(w, http.StatusOK, DocumentResponse{
		Path:   doc.Path(),
		Text:   doc.Text(),
		Spans:  spans,
		Marked: doc.MarkedWords(),
	})
}

func (e *DocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var textOnly bool
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Show the document and its marked words",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp DocumentResponse
			if err := client.Get(cmd.Context(), "/api/document", &resp); err != nil {
				return err
			}
			if textOnly {
				fmt.Println(resp.Text)
				return nil
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print only the text")
	return cmd
}

// SaveResponse reports where the document was written.
type SaveResponse struct {
	Path string `json:"path" yaml:"path"`
}

// SaveEndpoint handles POST /api/document/save.
type SaveEndpoint struct{}

func (e *SaveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/document/save", e.handler
}

func (e *SaveEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Save the document to its file
//	@Tags		document
//	@Produce	json
//	@Success	200	{object}	SaveResponse
//	@Failure	409	{object}	ErrorResponse	"Document is read-only"
//	@Failure	500	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/document/save [post]
func (e *SaveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	doc := svcctx.DocumentFrom(r.Context())
	if err := doc.Save(); err != nil {
		if errors.Is(err, document.ErrReadOnly) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	svcctx.LoggerFrom(r.Context()).Info("document saved", "path", doc.Path())
	writeJSON(w, http.StatusOK, SaveResponse{Path: doc.Path()})
}

func (e *SaveEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the document back to its file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SaveResponse
			if err := client.Post(cmd.Context(), "/api/document/save", nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", resp.Path)
			return nil
		},
	}
}
