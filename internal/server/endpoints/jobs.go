package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/engine"
	"github.com/bindery/bindery/internal/svcctx"
)

// JobStatusEndpoint handles GET /api/jobs/{job_id}.
type JobStatusEndpoint struct{}

func (e *JobStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs/{job_id}", e.handler
}

// handler godoc
//
//	@Summary		Get split job status
//	@Description	Returns the job's state and progress. Safe to poll; repeated reads never change the job.
//	@Tags			jobs
//	@Produce		json
//	@Param			job_id	path		string	true	"Job ID"
//	@Success		200	{object}	engine.Job
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/jobs/{job_id} [get]
func (e *JobStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	job, err := eng.Status(r.PathValue("job_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (e *JobStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "job <job_id>",
		Short: "Get split job status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp engine.Job
			if err := client.Get(cmd.Context(), "/api/jobs/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// JobDownloadEndpoint handles GET /api/jobs/{job_id}/download.
type JobDownloadEndpoint struct{}

func (e *JobDownloadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs/{job_id}/download", e.handler
}

// handler godoc
//
//	@Summary		Download the split archive
//	@Description	Streams the zip archive of a completed split job
//	@Tags			jobs
//	@Produce		application/zip
//	@Param			job_id	path	string	true	"Job ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/jobs/{job_id}/download [get]
func (e *JobDownloadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return
	}

	archivePath, err := eng.Output(r.PathValue("job_id"))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrJobNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, engine.ErrJobNotReady):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(archivePath)))
	http.ServeFile(w, r, archivePath)
}

func (e *JobDownloadEndpoint) Command(getServerURL func() string) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:   "download <job_id>",
		Short: "Download the split archive of a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := dest
			if out == "" {
				out = args[0] + ".zip"
			}
			client := api.NewClient(getServerURL())
			if err := client.Download(cmd.Context(), "/api/jobs/"+args[0]+"/download", out); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dest, "out", "", "Destination path (default <job_id>.zip)")
	return cmd
}
