package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/svcctx"
)

// DocumentInfoEndpoint handles GET /api/documents/{document_id}/info.
type DocumentInfoEndpoint struct{}

func (e *DocumentInfoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{document_id}/info", e.handler
}

// handler godoc
//
//	@Summary		Get document metadata
//	@Description	Get filename, title, and page count for an uploaded document
//	@Tags			documents
//	@Produce		json
//	@Param			document_id	path		string	true	"Document ID"
//	@Success		200	{object}	docstore.Document
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{document_id}/info [get]
func (e *DocumentInfoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docs := svcctx.DocumentsFrom(r.Context())
	if docs == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	doc, ok := docs.Get(r.PathValue("document_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (e *DocumentInfoEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "info <document_id>",
		Short: "Get document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0]+"/info", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DocumentPDFEndpoint handles GET /api/documents/{document_id}/pdf.
type DocumentPDFEndpoint struct{}

func (e *DocumentPDFEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{document_id}/pdf", e.handler
}

// handler godoc
//
//	@Summary		Download the original PDF
//	@Description	Stream the uploaded PDF back to the client
//	@Tags			documents
//	@Produce		application/pdf
//	@Param			document_id	path	string	true	"Document ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{document_id}/pdf [get]
func (e *DocumentPDFEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docs := svcctx.DocumentsFrom(r.Context())
	if docs == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	doc, ok := docs.Get(r.PathValue("document_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	http.ServeFile(w, r, doc.Path)
}

func (e *DocumentPDFEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <document_id> <dest.pdf>",
		Short: "Download the original PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Download(cmd.Context(), "/api/documents/"+args[0]+"/pdf", args[1]); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", args[1])
			return nil
		},
	}
}
