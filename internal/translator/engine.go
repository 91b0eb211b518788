package translator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/language"
)

var (
	// ErrBusy is returned when a translation is already in flight.
	ErrBusy = errors.New("translator: translation in flight")
	// ErrRestricted is returned when translation requires a signed-in user.
	ErrRestricted = errors.New("translator: sign-in required")
	// ErrNoTranslation is returned for feedback on an empty result.
	ErrNoTranslation = errors.New("translator: nothing to review")
)

// Notice kinds surfaced to the client alongside state.
const (
	NoticeWordLimit  = "word_limit"
	NoticeRestricted = "restricted"
	NoticeSlow       = "slow"
	NoticeError      = "error"
	NoticeFeedback   = "feedback_sent"
)

// Notice is a transient advisory message. Notices accumulate until drained.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Model identifies the translation model behind the current result.
type Model struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// State is a snapshot of the translation pane.
type State struct {
	SrcText string            `json:"src_text"`
	DstText string            `json:"dst_text"`
	SrcLang language.Language `json:"src_lang"`
	DstLang language.Language `json:"dst_lang"`
	Model   Model             `json:"model"`
	Warning bool              `json:"warning"`
	Busy    bool              `json:"busy"`
}

// Options configure an Engine's timings and limits.
type Options struct {
	MaxWords     int
	Debounce     time.Duration
	WarningFor   time.Duration
	SwapSettle   time.Duration
	SlowAfter    time.Duration
	RequiresAuth bool

	// OnSlow is invoked when a translation call is still in flight after
	// SlowAfter, alongside the advisory notice. Optional.
	OnSlow func()
}

type translationAPI interface {
	Translate(ctx context.Context, token string, in backend.TranslationRequest) (backend.TranslationResponse, error)
	AcceptTranslation(ctx context.Context, token string, in backend.TranslationFeedback) error
	RejectTranslation(ctx context.Context, token string, in backend.TranslationFeedback) error
}

// Engine orchestrates one translation pane: debounced automatic translation,
// single-flight guarding, language swapping and feedback submission. All
// methods are safe for concurrent use.
type Engine struct {
	api  translationAPI
	opts Options

	// after builds the engine's timers. Tests swap it for a manual trigger.
	after func(time.Duration, func()) *time.Timer

	// onUnauthorized is invoked when the backend rejects the session token.
	onUnauthorized func()

	mu            sync.Mutex
	state         State
	token         string
	authenticated bool
	gen           int
	busy          bool
	suppressNext  bool
	pending       *time.Timer
	warn          *time.Timer
	notices       []Notice
}

// New builds an Engine translating between the variant's default pair.
func New(api translationAPI, v language.Variant, opts Options) *Engine {
	src, dst := language.DefaultPair(v)
	return &Engine{
		api:   api,
		opts:  opts,
		after: time.AfterFunc,
		state: State{SrcLang: src, DstLang: dst},
	}
}

// SetOnUnauthorized registers a hook run when the backend answers 401.
func (e *Engine) SetOnUnauthorized(f func()) {
	e.mu.Lock()
	e.onUnauthorized = f
	e.mu.Unlock()
}

// SetSession updates the token used for backend calls.
func (e *Engine) SetSession(token string, authenticated bool) {
	e.mu.Lock()
	e.token = token
	e.authenticated = authenticated
	e.mu.Unlock()
}

// State returns a snapshot of the pane.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.Busy = e.busy
	return s
}

// Notices drains and returns accumulated advisory messages.
func (e *Engine) Notices() []Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.notices
	e.notices = nil
	return n
}

func (e *Engine) pushLocked(kind, msg string) {
	e.notices = append(e.notices, Notice{Kind: kind, Message: msg})
}

// SetSourceText records text typed into the source pane, enforcing the word
// limit, and schedules an automatic translation after the debounce interval.
// A pending schedule is replaced, never stacked. The schedule is skipped once
// after a transcript autofill.
func (e *Engine) SetSourceText(text string) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	limited, truncated := LimitWords(text, e.opts.MaxWords)
	e.state.SrcText = limited
	e.gen++
	if truncated {
		e.warnLocked()
	}
	e.cancelPendingLocked()
	if e.suppressNext {
		e.suppressNext = false
		return e.snapshotLocked()
	}
	if limited == "" {
		e.state.DstText = ""
		e.state.Model = Model{}
		return e.snapshotLocked()
	}
	e.scheduleLocked(e.opts.Debounce)
	return e.snapshotLocked()
}

// ApplyTranscript fills the source pane with a speech transcript. The fill
// itself does not trigger an automatic translation, and neither does the
// change event a client echoes back afterwards.
func (e *Engine) ApplyTranscript(text string) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	limited, truncated := LimitWords(text, e.opts.MaxWords)
	e.state.SrcText = limited
	e.gen++
	if truncated {
		e.warnLocked()
	}
	e.cancelPendingLocked()
	e.suppressNext = true
	return e.snapshotLocked()
}

// SetLanguages changes the pair and schedules a re-translation of whatever
// source text is present.
func (e *Engine) SetLanguages(src, dst language.Language) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.SrcLang = src
	e.state.DstLang = dst
	e.gen++
	e.cancelPendingLocked()
	if e.state.SrcText != "" {
		e.scheduleLocked(e.opts.Debounce)
	}
	return e.snapshotLocked()
}

// Swap exchanges the pair and both panes: the destination text becomes the
// source immediately, and the old source text lands in the destination pane
// after a short settle. No translation is issued; the exchanged text is the
// same pair the user already has. While a translation is in flight the swap
// is ignored.
func (e *Engine) Swap() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return e.snapshotLocked(), ErrBusy
	}
	e.state.SrcLang, e.state.DstLang = e.state.DstLang, e.state.SrcLang
	carried := e.state.SrcText
	e.state.SrcText = e.state.DstText
	e.state.DstText = ""
	e.state.Model = Model{}
	e.gen++
	e.cancelPendingLocked()
	gen := e.gen
	e.pending = e.after(e.opts.SwapSettle, func() {
		e.mu.Lock()
		if gen == e.gen {
			e.state.DstText = carried
		}
		e.mu.Unlock()
	})
	return e.snapshotLocked(), nil
}

// Translate runs a translation immediately, cancelling any pending schedule.
func (e *Engine) Translate(ctx context.Context) (State, error) {
	e.mu.Lock()
	e.cancelPendingLocked()
	if e.busy {
		defer e.mu.Unlock()
		return e.snapshotLocked(), ErrBusy
	}
	return e.translateLocked(ctx)
}

// scheduleLocked arms the debounce timer. Restriction is checked at fire
// time so a sign-in during the interval is honored.
func (e *Engine) scheduleLocked(d time.Duration) {
	gen := e.gen
	e.pending = e.after(d, func() {
		e.fire(gen)
	})
}

func (e *Engine) fire(gen int) {
	e.mu.Lock()
	if gen != e.gen || e.busy {
		e.mu.Unlock()
		return
	}
	if _, err := e.translateLocked(context.Background()); err != nil && !errors.Is(err, ErrRestricted) {
		slog.Debug("scheduled translation failed", "error", err)
	}
}

func (e *Engine) cancelPendingLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

func (e *Engine) warnLocked() {
	e.state.Warning = true
	e.pushLocked(NoticeWordLimit, "text was shortened to the word limit")
	if e.warn != nil {
		e.warn.Stop()
	}
	e.warn = e.after(e.opts.WarningFor, func() {
		e.mu.Lock()
		e.state.Warning = false
		e.mu.Unlock()
	})
}

// translateLocked performs the backend call. The mutex is held on entry and
// released before the network round trip; it is NOT held on return.
func (e *Engine) translateLocked(ctx context.Context) (State, error) {
	if e.opts.RequiresAuth && !e.authenticated {
		e.pushLocked(NoticeRestricted, "sign in to translate")
		defer e.mu.Unlock()
		return e.snapshotLocked(), ErrRestricted
	}
	if e.state.SrcText == "" {
		e.state.DstText = ""
		e.state.Model = Model{}
		defer e.mu.Unlock()
		return e.snapshotLocked(), nil
	}

	req := backend.TranslationRequest{
		SrcText: e.state.SrcText,
		SrcLang: e.state.SrcLang,
		DstLang: e.state.DstLang,
	}
	token := e.token
	gen := e.gen
	e.busy = true
	slow := e.after(e.opts.SlowAfter, func() {
		e.mu.Lock()
		stillBusy := e.busy
		if stillBusy {
			e.pushLocked(NoticeSlow, "the translation is taking longer than usual")
		}
		e.mu.Unlock()
		if stillBusy && e.opts.OnSlow != nil {
			e.opts.OnSlow()
		}
	})
	e.mu.Unlock()

	resp, err := e.api.Translate(ctx, token, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	slow.Stop()
	e.busy = false
	if err != nil {
		if backend.IsUnauthorized(err) && e.onUnauthorized != nil {
			go e.onUnauthorized()
		}
		e.pushLocked(NoticeError, "translation failed")
		return e.snapshotLocked(), err
	}
	if gen != e.gen {
		// The source changed while the call was in flight; drop the result.
		return e.snapshotLocked(), nil
	}
	e.state.DstText = resp.DstText
	e.state.Model = Model{Name: resp.ModelName, Version: resp.ModelVersion}
	return e.snapshotLocked(), nil
}

// Accept submits positive feedback on the current translation.
func (e *Engine) Accept(ctx context.Context) error {
	fb, token, err := e.feedback("")
	if err != nil {
		return err
	}
	if err := e.api.AcceptTranslation(ctx, token, fb); err != nil {
		return err
	}
	e.mu.Lock()
	e.pushLocked(NoticeFeedback, "thanks for the feedback")
	e.mu.Unlock()
	return nil
}

// Reject submits negative feedback on the current translation along with the
// user's correction, creating a suggestion for native speakers to review.
func (e *Engine) Reject(ctx context.Context, correction string) error {
	fb, token, err := e.feedback(correction)
	if err != nil {
		return err
	}
	if err := e.api.RejectTranslation(ctx, token, fb); err != nil {
		return err
	}
	e.mu.Lock()
	e.pushLocked(NoticeFeedback, "thanks for the correction")
	e.mu.Unlock()
	return nil
}

func (e *Engine) feedback(correction string) (backend.TranslationFeedback, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.authenticated {
		return backend.TranslationFeedback{}, "", ErrRestricted
	}
	if e.state.DstText == "" {
		return backend.TranslationFeedback{}, "", ErrNoTranslation
	}
	return backend.TranslationFeedback{
		SrcText:      e.state.SrcText,
		DstText:      e.state.DstText,
		SrcLang:      e.state.SrcLang,
		DstLang:      e.state.DstLang,
		Suggestion:   correction,
		ModelName:    e.state.Model.Name,
		ModelVersion: e.state.Model.Version,
	}, e.token, nil
}

func (e *Engine) snapshotLocked() State {
	s := e.state
	s.Busy = e.busy
	return s
}
