package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/config"
	"github.com/hugozeballos/lenga/internal/metrics"
	"github.com/hugozeballos/lenga/internal/recorder"
)

// recorderHandler exposes the speech-capture operations.
type recorderHandler struct {
	workspaces *Workspaces
	sessions   *sessionHandler
	cfg        *config.Config
	metrics    *metrics.Metrics
}

func newRecorderHandler(ws *Workspaces, sessions *sessionHandler, cfg *config.Config, m *metrics.Metrics) *recorderHandler {
	return &recorderHandler{workspaces: ws, sessions: sessions, cfg: cfg, metrics: m}
}

func (h *recorderHandler) disabled(w http.ResponseWriter) bool {
	if !h.cfg.ASR.Enabled {
		writeError(w, http.StatusNotFound, "not_found", "speech capture is not enabled")
		return true
	}
	return false
}

// State handles GET /api/recorder.
func (h *recorderHandler) State(w http.ResponseWriter, r *http.Request) {
	if h.disabled(w) {
		return
	}
	ws := h.workspaces.Acquire(w, r)
	writeJSON(w, http.StatusOK, ws.Recorder.State())
}

// Start handles POST /api/recorder/start.
func (h *recorderHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.disabled(w) {
		return
	}
	var req struct {
		ContentType string `json:"content_type"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	ws := h.workspaces.Acquire(w, r)
	switch err := ws.Recorder.Start(req.ContentType); {
	case errors.Is(err, recorder.ErrAlreadyRecording):
		writeError(w, http.StatusConflict, "already_recording", "stop the current recording first")
		return
	case errors.Is(err, recorder.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_format", "this audio format cannot be transcribed")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to start recording")
		return
	}
	writeJSON(w, http.StatusOK, ws.Recorder.State())
}

// Chunk handles POST /api/recorder/chunk. The body is raw audio.
func (h *recorderHandler) Chunk(w http.ResponseWriter, r *http.Request) {
	if h.disabled(w) {
		return
	}
	chunk, err := io.ReadAll(io.LimitReader(r.Body, h.cfg.MaxAudioBytes()+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to read audio chunk")
		return
	}
	ws := h.workspaces.Acquire(w, r)
	switch err := ws.Recorder.Push(chunk); {
	case errors.Is(err, recorder.ErrNotRecording):
		writeError(w, http.StatusConflict, "not_recording", "no recording open")
		return
	case errors.Is(err, recorder.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "the recording exceeds the size limit")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to buffer audio")
		return
	}
	writeJSON(w, http.StatusOK, ws.Recorder.State())
}

// Stop handles POST /api/recorder/stop: the capture is closed and sent for
// transcription.
func (h *recorderHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if h.disabled(w) {
		return
	}
	var req struct {
		SrcLang string `json:"src_lang"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	ws := h.workspaces.Acquire(w, r)
	token := h.sessions.cookies.Token(r)

	_, err := ws.Recorder.Stop(r.Context(), token, req.SrcLang)
	switch {
	case errors.Is(err, recorder.ErrNotRecording):
		writeError(w, http.StatusConflict, "not_recording", "no recording open")
		return
	case errors.Is(err, recorder.ErrEmptyRecording):
		writeError(w, http.StatusUnprocessableEntity, "empty_recording", "no audio was captured")
		return
	case backend.IsUnauthorized(err):
		if h.metrics != nil {
			h.metrics.IncTranscription("error")
		}
		h.sessions.unauthorized(w, r)
		return
	case err != nil:
		if h.metrics != nil {
			h.metrics.IncTranscription("error")
		}
		writeBackendError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncTranscription("ok")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recorder":   ws.Recorder.State(),
		"translator": ws.Translator.State(),
	})
}

// Reset handles POST /api/recorder/reset.
func (h *recorderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h.disabled(w) {
		return
	}
	ws := h.workspaces.Acquire(w, r)
	ws.Recorder.Reset()
	writeJSON(w, http.StatusOK, ws.Recorder.State())
}
