package api

import (
	"net/http"

	"github.com/hugozeballos/lenga/internal/config"
	"github.com/hugozeballos/lenga/internal/session"
)

// wellKnown describes the deployment to the web client: which language
// variant it serves, the interaction limits, and which features are on.
type wellKnown struct {
	Name         string   `json:"name"`
	Variant      string   `json:"variant"`
	VariantTitle string   `json:"variant_title"`
	APIBase      string   `json:"api_base"`
	PublicPaths  []string `json:"public_paths"`
	Translator   struct {
		MaxWords     int   `json:"max_words"`
		DebounceMS   int64 `json:"debounce_ms"`
		WarningMS    int64 `json:"warning_ms"`
		SwapSettleMS int64 `json:"swap_settle_ms"`
		SlowAfterMS  int64 `json:"slow_after_ms"`
		RequiresAuth bool  `json:"requires_auth"`
	} `json:"translator"`
	ASR struct {
		Enabled    bool `json:"enabled"`
		MaxAudioMB int  `json:"max_audio_mb"`
		Autofill   bool `json:"autofill_transcript"`
	} `json:"asr"`
	Health string `json:"health"`
}

func wellKnownHandler(cfg *config.Config) http.HandlerFunc {
	v := cfg.LanguageVariant()
	m := wellKnown{
		Name:         "Lenga",
		Variant:      string(v),
		VariantTitle: v.Title(),
		APIBase:      "/api",
		PublicPaths:  session.PublicPaths,
		Health:       "/health",
	}
	m.Translator.MaxWords = cfg.Translator.MaxWords
	m.Translator.DebounceMS = cfg.Translator.Debounce.Milliseconds()
	m.Translator.WarningMS = cfg.Translator.WarningFor.Milliseconds()
	m.Translator.SwapSettleMS = cfg.Translator.SwapSettle.Milliseconds()
	m.Translator.SlowAfterMS = cfg.Backend.SlowAfter.Milliseconds()
	m.Translator.RequiresAuth = cfg.Translator.RequiresAuth
	m.ASR.Enabled = cfg.ASR.Enabled
	m.ASR.MaxAudioMB = cfg.ASR.MaxAudioMB
	m.ASR.Autofill = cfg.ASR.AutofillTranscript

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m)
	}
}
