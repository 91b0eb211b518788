package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/config"
	"github.com/hugozeballos/lenga/internal/language"
	"github.com/hugozeballos/lenga/internal/metrics"
	"github.com/hugozeballos/lenga/internal/recorder"
	"github.com/hugozeballos/lenga/internal/translator"
)

// workspaceCookie identifies a browser's workspace across requests. It is
// separate from the token cookie: anonymous visitors get a workspace too.
const workspaceCookie = "lenga_ws"

// Workspace holds the per-browser interactive state: the translation pane
// and the audio capture. One browser maps to one workspace.
type Workspace struct {
	Translator *translator.Engine
	Recorder   *recorder.Recorder

	mu       sync.Mutex
	lastSeen time.Time
	authed   bool
}

func (ws *Workspace) touch(now time.Time) {
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
}

// BindSession points the workspace's engines at the request's session.
func (ws *Workspace) BindSession(token string, authenticated bool) {
	ws.Translator.SetSession(token, authenticated)
	ws.mu.Lock()
	ws.authed = authenticated
	ws.mu.Unlock()
}

func (ws *Workspace) seen() time.Time {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.lastSeen
}

// Workspaces tracks live workspaces by id and sweeps the ones idle past the
// TTL.
type Workspaces struct {
	backend *backend.Client
	cfg     *config.Config
	metrics *metrics.Metrics
	variant language.Variant

	mu  sync.Mutex
	all map[string]*Workspace

	now func() time.Time
}

// NewWorkspaces builds the registry. metrics may be nil in tests.
func NewWorkspaces(bc *backend.Client, cfg *config.Config, m *metrics.Metrics) *Workspaces {
	return &Workspaces{
		backend: bc,
		cfg:     cfg,
		metrics: m,
		variant: cfg.LanguageVariant(),
		all:     make(map[string]*Workspace),
		now:     time.Now,
	}
}

// Acquire returns the workspace for the request's browser, creating it (and
// setting the id cookie) on first contact.
func (r *Workspaces) Acquire(w http.ResponseWriter, req *http.Request) *Workspace {
	id := ""
	if ck, err := req.Cookie(workspaceCookie); err == nil && ck.Value != "" {
		if _, err := uuid.Parse(ck.Value); err == nil {
			id = ck.Value
		}
	}

	r.mu.Lock()
	if id != "" {
		if ws, ok := r.all[id]; ok {
			r.mu.Unlock()
			ws.touch(r.now())
			return ws
		}
	} else {
		id = uuid.NewString()
	}
	ws := r.create()
	ws.lastSeen = r.now()
	r.all[id] = ws
	count := len(r.all)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ActiveWorkspaces.Set(float64(count))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     workspaceCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ws
}

func (r *Workspaces) create() *Workspace {
	topts := translator.Options{
		MaxWords:     r.cfg.Translator.MaxWords,
		Debounce:     r.cfg.Translator.Debounce,
		WarningFor:   r.cfg.Translator.WarningFor,
		SwapSettle:   r.cfg.Translator.SwapSettle,
		SlowAfter:    r.cfg.Backend.SlowAfter,
		RequiresAuth: r.cfg.Translator.RequiresAuth,
	}
	if r.metrics != nil {
		topts.OnSlow = r.metrics.IncSlowTranslation
	}
	engine := translator.New(r.backend, r.variant, topts)
	opts := recorder.Options{
		MaxBytes: r.cfg.MaxAudioBytes(),
		Mock:     r.cfg.ASR.Mock,
	}
	if r.cfg.ASR.AutofillTranscript {
		opts.Autofill = func(transcript string) {
			engine.ApplyTranscript(transcript)
		}
	}
	return &Workspace{
		Translator: engine,
		Recorder:   recorder.New(r.backend, r.variant, opts),
	}
}

// Len returns the number of live workspaces.
func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.all)
}

// Stats reports registry gauges for the metrics collector.
func (r *Workspaces) Stats() (total, authenticated, recording int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ws := range r.all {
		total++
		ws.mu.Lock()
		if ws.authed {
			authenticated++
		}
		ws.mu.Unlock()
		if ws.Recorder.State().Phase == recorder.PhaseRecording {
			recording++
		}
	}
	return total, authenticated, recording
}

// Sweep removes workspaces idle past ttl and returns how many were dropped.
func (r *Workspaces) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	r.mu.Lock()
	dropped := 0
	for id, ws := range r.all {
		if ws.seen().Before(cutoff) {
			delete(r.all, id)
			dropped++
		}
	}
	count := len(r.all)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ActiveWorkspaces.Set(float64(count))
		if dropped > 0 {
			r.metrics.WorkspacesSwept.Add(float64(dropped))
		}
	}
	return dropped
}

// Run sweeps on the configured interval until ctx is canceled.
func (r *Workspaces) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Session.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := r.Sweep(r.cfg.Session.WorkspaceTTL); dropped > 0 {
				slog.Debug("workspaces swept", "dropped", dropped, "live", r.Len())
			}
		}
	}
}
