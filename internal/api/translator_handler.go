package api

import (
	"errors"
	"net/http"

	"github.com/hugozeballos/lenga/internal/language"
	"github.com/hugozeballos/lenga/internal/metrics"
	"github.com/hugozeballos/lenga/internal/session"
	"github.com/hugozeballos/lenga/internal/translator"
)

// translatorHandler exposes the translation pane operations.
type translatorHandler struct {
	workspaces *Workspaces
	sessions   *sessionHandler
	variant    language.Variant
	metrics    *metrics.Metrics
}

func newTranslatorHandler(ws *Workspaces, sessions *sessionHandler, v language.Variant, m *metrics.Metrics) *translatorHandler {
	return &translatorHandler{workspaces: ws, sessions: sessions, variant: v, metrics: m}
}

// acquire binds the request's session to its workspace and returns it.
func (h *translatorHandler) acquire(w http.ResponseWriter, r *http.Request) *Workspace {
	ws := h.workspaces.Acquire(w, r)
	s := session.FromContext(r.Context())
	ws.BindSession(h.sessions.cookies.Token(r), s.IsAuthenticated())
	return ws
}

func paneResponse(ws *Workspace) map[string]interface{} {
	return map[string]interface{}{
		"state":   ws.Translator.State(),
		"notices": ws.Translator.Notices(),
	}
}

// State handles GET /api/translator.
func (h *translatorHandler) State(w http.ResponseWriter, r *http.Request) {
	ws := h.acquire(w, r)
	writeJSON(w, http.StatusOK, paneResponse(ws))
}

// SetText handles POST /api/translator/text.
func (h *translatorHandler) SetText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	ws := h.acquire(w, r)
	ws.Translator.SetSourceText(req.Text)
	writeJSON(w, http.StatusOK, paneResponse(ws))
}

// SetLanguages handles POST /api/translator/languages.
func (h *translatorHandler) SetLanguages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SrcLang string `json:"src_lang"`
		DstLang string `json:"dst_lang"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	src, ok := language.ByCode(h.variant, req.SrcLang)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown source language")
		return
	}
	dst, ok := language.ByCode(h.variant, req.DstLang)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown destination language")
		return
	}
	ws := h.acquire(w, r)
	ws.Translator.SetLanguages(src, dst)
	writeJSON(w, http.StatusOK, paneResponse(ws))
}

// Swap handles POST /api/translator/swap.
func (h *translatorHandler) Swap(w http.ResponseWriter, r *http.Request) {
	ws := h.acquire(w, r)
	if _, err := ws.Translator.Swap(); errors.Is(err, translator.ErrBusy) {
		writeError(w, http.StatusConflict, "busy", "a translation is in flight")
		return
	}
	writeJSON(w, http.StatusOK, paneResponse(ws))
}

// Translate handles POST /api/translator/translate.
func (h *translatorHandler) Translate(w http.ResponseWriter, r *http.Request) {
	ws := h.acquire(w, r)
	state, err := ws.Translator.Translate(r.Context())
	switch {
	case errors.Is(err, translator.ErrBusy):
		writeError(w, http.StatusConflict, "busy", "a translation is in flight")
		return
	case errors.Is(err, translator.ErrRestricted):
		writeJSON(w, http.StatusOK, paneResponse(ws))
		return
	case err != nil:
		h.sessions.respondError(w, r, err)
		return
	}
	if h.metrics != nil && state.DstText != "" {
		h.metrics.IncTranslation(state.SrcLang.Code, state.DstLang.Code)
	}
	writeJSON(w, http.StatusOK, paneResponse(ws))
}

// Feedback handles POST /api/translator/feedback.
func (h *translatorHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Positive   bool   `json:"positive"`
		Correction string `json:"correction"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	ws := h.acquire(w, r)

	var err error
	if req.Positive {
		err = ws.Translator.Accept(r.Context())
	} else {
		if req.Correction == "" {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "a correction is required")
			return
		}
		err = ws.Translator.Reject(r.Context(), req.Correction)
	}
	switch {
	case errors.Is(err, translator.ErrRestricted):
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in to review translations")
		return
	case errors.Is(err, translator.ErrNoTranslation):
		writeError(w, http.StatusConflict, "no_translation", "nothing to review yet")
		return
	case err != nil:
		h.sessions.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paneResponse(ws))
}

// Languages handles GET /api/languages. The platform's list is preferred;
// when it cannot be reached the bundled reference list keeps the picker
// working.
func (h *translatorHandler) Languages(w http.ResponseWriter, r *http.Request) {
	token := h.sessions.cookies.Token(r)
	langs, err := h.sessions.backend.Languages(r.Context(), token, map[string]string{
		"variant": string(h.variant),
	})
	if err != nil || len(langs) == 0 {
		langs = language.List(h.variant)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": langs,
	})
}
