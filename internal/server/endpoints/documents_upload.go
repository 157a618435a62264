package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/docstore"
	"github.com/bindery/bindery/internal/pdf"
	"github.com/bindery/bindery/internal/svcctx"
)

// UploadResponse is the response for a document upload.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Title      string `json:"title"`
	Pages      int    `json:"pages"`
}

// UploadDocumentEndpoint handles POST /api/documents/upload with a multipart
// PDF upload.
type UploadDocumentEndpoint struct{}

var _ api.Endpoint = (*UploadDocumentEndpoint)(nil)

func (e *UploadDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/upload", e.handler
}

// handler godoc
//
//	@Summary		Upload a PDF document
//	@Description	Upload a PDF to split later. The document is validated on upload; corrupt files are rejected.
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"PDF file"
//	@Param			title	formData	string	false	"Document title (derived from filename if not provided)"
//	@Success		200	{object}	UploadResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		413	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/documents/upload [post]
func (e *UploadDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	homeDir := svcctx.HomeFrom(r.Context())
	docs := svcctx.DocumentsFrom(r.Context())
	if homeDir == nil || docs == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	var maxBytes int64 = 200 << 20
	if cm := svcctx.ConfigFrom(r.Context()); cm != nil {
		maxBytes = cm.Get().MaxUploadBytes()
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxBytes))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	documentID := uuid.New().String()
	destPath := homeDir.UploadPath(documentID)

	dst, err := os.Create(destPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create file: %v", err))
		return
	}
	_, err = io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save file: %v", err))
		return
	}

	// Validate the PDF now so corrupt uploads fail here, not at split time.
	doc, err := pdf.Open(destPath)
	if err != nil {
		os.Remove(destPath)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid PDF: %v", err))
		return
	}
	pageCount := doc.PageCount()
	doc.Close()

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	docs.Put(docstore.Document{
		ID:         documentID,
		Filename:   header.Filename,
		Title:      title,
		Path:       destPath,
		PageCount:  pageCount,
		UploadedAt: time.Now().UTC(),
	})

	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("document uploaded", "document_id", documentID, "filename", header.Filename, "pages", pageCount)
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		DocumentID: documentID,
		Filename:   header.Filename,
		Title:      title,
		Pages:      pageCount,
	})
}

func (e *UploadDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp UploadResponse
			if err := client.UploadFile(cmd.Context(), "/api/documents/upload", "file", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
