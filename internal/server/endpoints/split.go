package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/engine"
	"github.com/bindery/bindery/internal/pdf"
	"github.com/bindery/bindery/internal/svcctx"
	"github.com/bindery/bindery/internal/toc"
)

// SplitRequest optionally overrides the TOC to split on. When TOC is absent
// the saved edited TOC is used, and failing that a fresh extraction.
type SplitRequest struct {
	Title string          `json:"title,omitempty"`
	TOC   json.RawMessage `json:"toc,omitempty"`
}

// SplitResponse carries the ID of the accepted split job.
type SplitResponse struct {
	JobID string `json:"job_id"`
}

// SplitEndpoint handles POST /api/documents/{document_id}/split.
type SplitEndpoint struct{}

func (e *SplitEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{document_id}/split", e.handler
}

// handler godoc
//
//	@Summary		Start a split job
//	@Description	Splits the document into per-chapter PDFs in the background. Poll the returned job ID for progress and download the archive once completed.
//	@Tags			split
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path		string			true	"Document ID"
//	@Param			request		body		SplitRequest	false	"Optional TOC override"
//	@Success		202	{object}	SplitResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/documents/{document_id}/split [post]
func (e *SplitEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docs := svcctx.DocumentsFrom(r.Context())
	edited := svcctx.EditedTOCsFrom(r.Context())
	eng := svcctx.EngineFrom(r.Context())
	if docs == nil || edited == nil || eng == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	documentID := r.PathValue("document_id")
	doc, ok := docs.Get(documentID)
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	tree, err := e.resolveTree(req, documentID, doc.Path, doc.Title, edited)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	title := req.Title
	if title == "" {
		title = doc.Title
	}

	jobID, err := eng.Submit(engine.Request{
		PDFPath: doc.Path,
		Title:   title,
		Tree:    tree,
	})
	if err != nil {
		switch {
		case errors.Is(err, toc.ErrEmptyTree), errors.Is(err, pdf.ErrCorruptDocument):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to start split: %v", err))
		}
		return
	}

	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("split job accepted", "document_id", documentID, "job_id", jobID)
	}

	writeJSON(w, http.StatusAccepted, SplitResponse{JobID: jobID})
}

// resolveTree picks the TOC for this split: request body, then the saved
// edited TOC, then a fresh extraction from the PDF.
func (e *SplitEndpoint) resolveTree(req SplitRequest, documentID, pdfPath, title string, edited *toc.Store) (*toc.Tree, error) {
	if len(req.TOC) > 0 {
		tree, err := toc.ParseWire(req.TOC)
		if err != nil {
			return nil, fmt.Errorf("invalid TOC: %w", err)
		}
		return tree, nil
	}

	if tree, ok := edited.Get(documentID); ok {
		return tree, nil
	}

	pdfDoc, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer pdfDoc.Close()
	return toc.Extract(pdfDoc, title), nil
}

func (e *SplitEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		tocFile string
		title   string
	)
	cmd := &cobra.Command{
		Use:   "split <document_id>",
		Short: "Start a split job for an uploaded document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := SplitRequest{Title: title}
			if tocFile != "" {
				data, err := os.ReadFile(tocFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", tocFile, err)
				}
				if _, err := toc.ParseWire(data); err != nil {
					return fmt.Errorf("invalid TOC in %s: %w", tocFile, err)
				}
				req.TOC = json.RawMessage(data)
			}

			client := api.NewClient(getServerURL())
			var resp SplitResponse
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/split", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&tocFile, "toc", "", "JSON file with a TOC to split on")
	cmd.Flags().StringVar(&title, "title", "", "Output directory title (defaults to the document title)")
	return cmd
}
