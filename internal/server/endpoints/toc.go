package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/pdf"
	"github.com/bindery/bindery/internal/svcctx"
	"github.com/bindery/bindery/internal/toc"
)

// TOC source values reported by the TOC endpoint.
const (
	TOCSourceEdited   = "edited"
	TOCSourceOutline  = "outline"
	TOCSourceFallback = "fallback"
)

// TOCResponse is the response for TOC retrieval and editing.
type TOCResponse struct {
	DocumentID string    `json:"document_id"`
	Source     string    `json:"source,omitempty"`
	TOC        *toc.Tree `json:"toc"`
}

// GetTOCEndpoint handles GET /api/documents/{document_id}/toc.
type GetTOCEndpoint struct{}

func (e *GetTOCEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{document_id}/toc", e.handler
}

// handler godoc
//
//	@Summary		Get the document's table of contents
//	@Description	Returns the saved edited TOC if one exists, otherwise extracts one from the PDF's embedded outline. Documents with no outline get a single whole-document chapter.
//	@Tags			toc
//	@Produce		json
//	@Param			document_id	path		string	true	"Document ID"
//	@Success		200	{object}	TOCResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/documents/{document_id}/toc [get]
func (e *GetTOCEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docs := svcctx.DocumentsFrom(r.Context())
	edited := svcctx.EditedTOCsFrom(r.Context())
	if docs == nil || edited == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	documentID := r.PathValue("document_id")
	doc, ok := docs.Get(documentID)
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	if tree, ok := edited.Get(documentID); ok {
		writeJSON(w, http.StatusOK, TOCResponse{DocumentID: documentID, Source: TOCSourceEdited, TOC: tree})
		return
	}

	pdfDoc, err := pdf.Open(doc.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open document: %v", err))
		return
	}
	defer pdfDoc.Close()

	source := TOCSourceOutline
	if entries, err := pdfDoc.ReadOutline(); err != nil || len(entries) == 0 {
		source = TOCSourceFallback
	}

	tree := toc.Extract(pdfDoc, doc.Title)
	writeJSON(w, http.StatusOK, TOCResponse{DocumentID: documentID, Source: source, TOC: tree})
}

func (e *GetTOCEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "toc <document_id>",
		Short: "Get the document's table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TOCResponse
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0]+"/toc", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// EditTOCResponse confirms a saved TOC edit.
type EditTOCResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Chapters   int    `json:"chapters"`
}

// EditTOCEndpoint handles PUT /api/documents/{document_id}/toc.
type EditTOCEndpoint struct{}

func (e *EditTOCEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/documents/{document_id}/toc", e.handler
}

// handler godoc
//
//	@Summary		Save an edited table of contents
//	@Description	Validates the TOC against the wire schema and saves it. Later split requests for this document use the edited TOC unless they carry their own.
//	@Tags			toc
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path		string		true	"Document ID"
//	@Param			toc			body		toc.Tree	true	"Edited TOC"
//	@Success		200	{object}	EditTOCResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{document_id}/toc [put]
func (e *EditTOCEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docs := svcctx.DocumentsFrom(r.Context())
	edited := svcctx.EditedTOCsFrom(r.Context())
	if docs == nil || edited == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	documentID := r.PathValue("document_id")
	if _, ok := docs.Get(documentID); !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}

	tree, err := toc.ParseWire(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid TOC: %v", err))
		return
	}

	edited.Set(documentID, tree)
	writeJSON(w, http.StatusOK, EditTOCResponse{
		DocumentID: documentID,
		Status:     "saved",
		Chapters:   len(tree.Chapters),
	})
}

func (e *EditTOCEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "toc-edit <document_id> <toc.json>",
		Short: "Save an edited table of contents from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			tree, err := toc.ParseWire(data)
			if err != nil {
				return fmt.Errorf("invalid TOC in %s: %w", args[1], err)
			}

			client := api.NewClient(getServerURL())
			var resp EditTOCResponse
			if err := client.Put(cmd.Context(), "/api/documents/"+args[0]+"/toc", tree, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
