package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/facultydesk/schedimport/internal/importer"
	"github.com/facultydesk/schedimport/internal/logging"
)

// StartImportResponse is the reply to a successful upload: the opened
// session with its summary and the first preview page.
type StartImportResponse struct {
	SessionID string           `json:"sessionId"`
	FileName  string           `json:"fileName"`
	State     importer.State   `json:"state"`
	Summary   importer.Summary `json:"summary"`
	Page      importer.Page    `json:"page"`
}

// SessionStateResponse reports a session's current state and summary.
type SessionStateResponse struct {
	SessionID string           `json:"sessionId"`
	FileName  string           `json:"fileName"`
	State     importer.State   `json:"state"`
	Summary   importer.Summary `json:"summary"`
	Inserted  int64            `json:"inserted"`
}

// handleStartImport accepts an .xlsx/.xls upload, runs the parse and
// normalize pass, and opens a preview session over the result.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Acquire(r.Context()); err != nil {
		if errors.Is(err, importer.ErrTooManyImports) {
			writeErrorJSON(w, http.StatusTooManyRequests, err.Error(), "REQ005")
			return
		}
		writeErrorJSON(w, http.StatusServiceUnavailable, "request cancelled", "REQ006")
		return
	}
	defer s.limiter.Release()

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "file too large or invalid form", "REQ001")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "no file provided", "REQ002")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		writeErrorJSON(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q, expected .xlsx or .xls", ext), "REQ003")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to read file", "REQ004")
		return
	}

	session, err := s.service.Start(r.Context(), header.Filename, data)
	if err != nil {
		respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	logging.FromContext(r.Context()).Info("import started",
		"session_id", session.ID,
		"file", session.FileName,
	)

	writeJSON(w, http.StatusOK, StartImportResponse{
		SessionID: session.ID,
		FileName:  session.FileName,
		State:     session.State(),
		Summary:   session.Summary(),
		Page:      session.Page(1, s.service.PageSize()),
	})
}

// handleSessionState reports where a session is in its lifecycle.
func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, SessionStateResponse{
		SessionID: session.ID,
		FileName:  session.FileName,
		State:     session.State(),
		Summary:   session.Summary(),
		Inserted:  session.Inserted(),
	})
}

// handleSessionPage returns one preview page. Out-of-range page numbers
// clamp to the first/last page rather than erroring, matching the modal's
// prev/next buttons.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			page = n
		}
	}

	writeJSON(w, http.StatusOK, session.Page(page, s.service.PageSize()))
}

// handleCommit bulk-inserts the session's full batch. A store failure
// returns the session to preview with the batch intact; the client may
// simply retry.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.CommitTimeout)
	defer cancel()

	inserted, err := s.service.Commit(ctx, sessionID)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, importer.ErrSessionNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, importer.ErrNotInPreview) {
			status = http.StatusConflict
		}
		respondError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"inserted": inserted})
}

// handleReset discards a session's batch.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reset(chi.URLParam(r, "sessionID")); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, importer.ErrNotInPreview) {
			status = http.StatusConflict
		}
		respondError(w, r, err, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadTemplate serves the single-sample-row workbook that
// teaches users the expected column layout.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := importer.WriteTemplate()
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.TemplateFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
