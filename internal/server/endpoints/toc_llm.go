package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/llmtoc"
	"github.com/bindery/bindery/internal/svcctx"
)

// LLMTOCRequest identifies the printed TOC pages to extract from.
type LLMTOCRequest struct {
	TOCStartPage     int `json:"toc_start_page"`
	TOCEndPage       int `json:"toc_end_page"`
	ContentStartPage int `json:"content_start_page,omitempty"`
}

// LLMTOCEndpoint handles POST /api/documents/{document_id}/toc/llm.
type LLMTOCEndpoint struct{}

func (e *LLMTOCEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{document_id}/toc/llm", e.handler
}

// handler godoc
//
//	@Summary		Extract a TOC from printed contents pages
//	@Description	Reads the text of the given pages and asks the configured model to structure it. Page numbers in the result are absolute PDF pages.
//	@Tags			toc
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path		string			true	"Document ID"
//	@Param			request		body		LLMTOCRequest	true	"TOC page range"
//	@Success		200	{object}	TOCResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/documents/{document_id}/toc/llm [post]
func (e *LLMTOCEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	docs := svcctx.DocumentsFrom(r.Context())
	extractor := svcctx.LLMExtractorFrom(r.Context())
	if docs == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}
	if extractor == nil || !extractor.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "LLM TOC extraction is not configured")
		return
	}

	documentID := r.PathValue("document_id")
	doc, ok := docs.Get(documentID)
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	var req LLMTOCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.TOCStartPage < 1 || req.TOCEndPage < req.TOCStartPage {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid TOC page range %d-%d", req.TOCStartPage, req.TOCEndPage))
		return
	}
	if req.TOCEndPage > doc.PageCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("TOC page range exceeds document length (%d pages)", doc.PageCount))
		return
	}

	tree, err := extractor.Extract(r.Context(), llmtoc.Request{
		PDFPath:     doc.Path,
		TOCStart:    req.TOCStartPage,
		TOCEnd:      req.TOCEndPage,
		ContentPage: req.ContentStartPage,
	})
	if err != nil {
		if errors.Is(err, llmtoc.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, fmt.Sprintf("LLM TOC extraction failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, TOCResponse{DocumentID: documentID, Source: "llm", TOC: tree})
}

func (e *LLMTOCEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		startPage   int
		endPage     int
		contentPage int
	)
	cmd := &cobra.Command{
		Use:   "toc-llm <document_id>",
		Short: "Extract a TOC from printed contents pages via the configured model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := LLMTOCRequest{
				TOCStartPage:     startPage,
				TOCEndPage:       endPage,
				ContentStartPage: contentPage,
			}
			var resp TOCResponse
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/toc/llm", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&startPage, "start", 0, "First PDF page of the printed contents (1-indexed)")
	cmd.Flags().IntVar(&endPage, "end", 0, "Last PDF page of the printed contents (inclusive)")
	cmd.Flags().IntVar(&contentPage, "content-page", 0, "PDF page where the book's page 1 falls")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}
