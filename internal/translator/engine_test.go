package translator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/language"
)

type fakeAPI struct {
	mu         sync.Mutex
	calls      []backend.TranslationRequest
	accepted   []backend.TranslationFeedback
	rejected   []backend.TranslationFeedback
	reply      backend.TranslationResponse
	err        error
	block      chan struct{}
	inProgress chan struct{}
}

func (f *fakeAPI) Translate(_ context.Context, _ string, in backend.TranslationRequest) (backend.TranslationResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	block, progress := f.block, f.inProgress
	f.mu.Unlock()
	if progress != nil {
		progress <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.reply, f.err
}

func (f *fakeAPI) AcceptTranslation(_ context.Context, _ string, in backend.TranslationFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = append(f.accepted, in)
	return f.err
}

func (f *fakeAPI) RejectTranslation(_ context.Context, _ string, in backend.TranslationFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, in)
	return f.err
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// timerQueue replaces the engine's timer factory so tests fire schedules by
// hand instead of sleeping.
type timerQueue struct {
	mu    sync.Mutex
	armed []armedTimer
}

type armedTimer struct {
	d time.Duration
	f func()
}

func (q *timerQueue) after(d time.Duration, f func()) *time.Timer {
	q.mu.Lock()
	q.armed = append(q.armed, armedTimer{d, f})
	q.mu.Unlock()
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

// fireLast runs the most recently armed callback.
func (q *timerQueue) fireLast(t *testing.T) {
	t.Helper()
	q.mu.Lock()
	if len(q.armed) == 0 {
		q.mu.Unlock()
		t.Fatal("no timer armed")
	}
	f := q.armed[len(q.armed)-1].f
	q.armed = q.armed[:len(q.armed)-1]
	q.mu.Unlock()
	f()
}

// fireAt runs the callback armed at index i, oldest first.
func (q *timerQueue) fireAt(t *testing.T, i int) {
	t.Helper()
	q.mu.Lock()
	if i >= len(q.armed) {
		q.mu.Unlock()
		t.Fatalf("no timer armed at %d", i)
	}
	f := q.armed[i].f
	q.armed = append(q.armed[:i], q.armed[i+1:]...)
	q.mu.Unlock()
	f()
}

func (q *timerQueue) armedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.armed)
}

func testOptions() Options {
	return Options{
		MaxWords:   5,
		Debounce:   1500 * time.Millisecond,
		WarningFor: 3 * time.Second,
		SwapSettle: time.Second,
		SlowAfter:  5 * time.Second,
	}
}

func newTestEngine(api *fakeAPI, opts Options) (*Engine, *timerQueue) {
	e := New(api, language.VariantRapaNui, opts)
	q := &timerQueue{}
	e.after = q.after
	e.SetSession("tok", true)
	return e, q
}

func TestTypingSchedulesDebouncedTranslation(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "iorana", ModelName: "m", ModelVersion: "1"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	if api.callCount() != 0 {
		t.Fatal("translation ran before the debounce fired")
	}
	q.fireLast(t)

	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", api.callCount())
	}
	s := e.State()
	if s.DstText != "iorana" || s.Model.Name != "m" || s.Model.Version != "1" {
		t.Fatalf("unexpected state after translation: %+v", s)
	}
}

func TestRetypingReplacesPendingSchedule(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "out"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("ho")
	e.SetSourceText("hola")
	// Fire both armed callbacks: the stale one must be a no-op.
	q.fireLast(t)
	q.fireLast(t)

	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", api.callCount())
	}
	f := api.calls[0]
	if f.SrcText != "hola" {
		t.Fatalf("translated %q, want the latest text", f.SrcText)
	}
}

func TestClearingTextClearsResultWithoutCall(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "out"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	q.fireLast(t)
	if e.State().DstText == "" {
		t.Fatal("expected a translation first")
	}

	s := e.SetSourceText("")
	if s.DstText != "" {
		t.Fatal("result pane not cleared")
	}
	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want no call for empty text", api.callCount())
	}
}

func TestWordLimitTruncatesAndWarns(t *testing.T) {
	api := &fakeAPI{}
	e, q := newTestEngine(api, testOptions())

	s := e.SetSourceText("a b c d e f g")
	if s.SrcText != "a b c d e " {
		t.Fatalf("SrcText = %q, want truncation at the sixth word", s.SrcText)
	}
	if !s.Warning {
		t.Fatal("warning flag not set")
	}
	notices := e.Notices()
	if len(notices) != 1 || notices[0].Kind != NoticeWordLimit {
		t.Fatalf("notices = %+v, want one word_limit", notices)
	}

	// The warning timer was armed before the debounce timer.
	q.mu.Lock()
	warn := q.armed[0].f
	q.mu.Unlock()
	warn()
	if e.State().Warning {
		t.Fatal("warning flag not cleared after the interval")
	}
}

func TestRestrictedWithoutSession(t *testing.T) {
	api := &fakeAPI{}
	opts := testOptions()
	opts.RequiresAuth = true
	e, q := newTestEngine(api, opts)
	e.SetSession("", false)

	e.SetSourceText("hola")
	q.fireLast(t)

	if api.callCount() != 0 {
		t.Fatal("restricted engine must not call the backend")
	}
	notices := e.Notices()
	if len(notices) != 1 || notices[0].Kind != NoticeRestricted {
		t.Fatalf("notices = %+v, want one restricted", notices)
	}
	if _, err := e.Translate(context.Background()); !errors.Is(err, ErrRestricted) {
		t.Fatalf("Translate error = %v, want ErrRestricted", err)
	}
}

func TestSignInDuringDebounceIsHonored(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "out"}}
	opts := testOptions()
	opts.RequiresAuth = true
	e, q := newTestEngine(api, opts)
	e.SetSession("", false)

	e.SetSourceText("hola")
	e.SetSession("tok", true)
	q.fireLast(t)

	if api.callCount() != 1 {
		t.Fatal("sign-in during the debounce interval should allow the call")
	}
}

func TestSingleFlightGuard(t *testing.T) {
	api := &fakeAPI{
		reply:      backend.TranslationResponse{DstText: "out"},
		block:      make(chan struct{}),
		inProgress: make(chan struct{}, 1),
	}
	e, _ := newTestEngine(api, testOptions())
	e.mu.Lock()
	e.state.SrcText = "hola"
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := e.Translate(context.Background())
		done <- err
	}()
	<-api.inProgress

	if !e.State().Busy {
		t.Fatal("engine not busy during an in-flight call")
	}
	if _, err := e.Translate(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Translate error = %v, want ErrBusy", err)
	}
	if _, err := e.Swap(); !errors.Is(err, ErrBusy) {
		t.Fatalf("Swap during flight error = %v, want ErrBusy", err)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first Translate: %v", err)
	}
	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", api.callCount())
	}
}

func TestSwapCarriesResultAndSettles(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "iorana"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	q.fireLast(t)
	before := e.State()

	s, err := e.Swap()
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if s.SrcLang != before.DstLang || s.DstLang != before.SrcLang {
		t.Fatal("languages not exchanged")
	}
	if s.SrcText != "iorana" || s.DstText != "" {
		t.Fatalf("panes after swap: src=%q dst=%q", s.SrcText, s.DstText)
	}

	// The settle timer delivers the old source text into the destination
	// pane. Swap is a pure exchange and never issues a translation.
	q.fireLast(t)
	after := e.State()
	if after.DstText != "hola" {
		t.Fatalf("after settle DstText = %q, want %q", after.DstText, "hola")
	}
	if after.SrcText != "iorana" {
		t.Fatalf("after settle SrcText = %q, want %q", after.SrcText, "iorana")
	}
	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want no translation from swap", api.callCount())
	}
}

func TestSwapExchangesEmptyDestination(t *testing.T) {
	api := &fakeAPI{}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	s, err := e.Swap()
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if s.SrcText != "" || s.DstText != "" {
		t.Fatalf("panes after swap: src=%q dst=%q", s.SrcText, s.DstText)
	}

	q.fireLast(t)
	after := e.State()
	if after.DstText != "hola" {
		t.Fatalf("after settle DstText = %q, want %q", after.DstText, "hola")
	}
	if api.callCount() != 0 {
		t.Fatalf("calls = %d, want 0", api.callCount())
	}
}

func TestSwapSettleCancelledByTyping(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "iorana"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	q.fireLast(t)
	if _, err := e.Swap(); err != nil {
		t.Fatalf("Swap: %v", err)
	}

	// Typing before the settle fires supersedes the carried delivery.
	e.SetSourceText("iorana korua")
	q.fireAt(t, 0)
	if got := e.State().DstText; got != "" {
		t.Fatalf("stale settle wrote DstText = %q", got)
	}
}

func TestTranscriptAutofillSuppressesOneAutoTranslate(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "out"}}
	e, q := newTestEngine(api, testOptions())

	s := e.ApplyTranscript("iorana korua")
	if s.SrcText != "iorana korua" {
		t.Fatalf("SrcText = %q", s.SrcText)
	}
	if q.armedCount() != 0 {
		t.Fatal("autofill must not arm the debounce")
	}

	// The client echoes the change event back once; still no schedule.
	e.SetSourceText("iorana korua")
	if q.armedCount() != 0 {
		t.Fatal("echoed change after autofill must be suppressed")
	}

	// The suppression is one-shot.
	e.SetSourceText("iorana korua e")
	if q.armedCount() != 1 {
		t.Fatal("subsequent edits must schedule normally")
	}
}

func TestSlowCallNoticeDoesNotAbort(t *testing.T) {
	api := &fakeAPI{
		reply:      backend.TranslationResponse{DstText: "out"},
		block:      make(chan struct{}),
		inProgress: make(chan struct{}, 1),
	}
	e, q := newTestEngine(api, testOptions())
	e.mu.Lock()
	e.state.SrcText = "hola"
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := e.Translate(context.Background())
		done <- err
	}()
	<-api.inProgress

	q.fireLast(t) // the slow-call advisory timer
	notices := e.Notices()
	if len(notices) != 1 || notices[0].Kind != NoticeSlow {
		t.Fatalf("notices = %+v, want one slow", notices)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if e.State().DstText != "out" {
		t.Fatal("slow notice must not abort the call")
	}
}

func TestSlowCallInvokesHook(t *testing.T) {
	api := &fakeAPI{
		reply:      backend.TranslationResponse{DstText: "out"},
		block:      make(chan struct{}),
		inProgress: make(chan struct{}, 1),
	}
	var slowCalls int32
	opts := testOptions()
	opts.OnSlow = func() { atomic.AddInt32(&slowCalls, 1) }
	e, q := newTestEngine(api, opts)
	e.mu.Lock()
	e.state.SrcText = "hola"
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := e.Translate(context.Background())
		done <- err
	}()
	<-api.inProgress

	q.fireLast(t)
	if got := atomic.LoadInt32(&slowCalls); got != 1 {
		t.Fatalf("slow hook ran %d times, want 1", got)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("Translate: %v", err)
	}

	// A call that completes before the timer never reports slow.
	e.SetSourceText("iorana")
	q.fireLast(t)
	if got := atomic.LoadInt32(&slowCalls); got != 1 {
		t.Fatalf("slow hook ran %d times after a fast call, want 1", got)
	}
}

func TestLanguageChangeRetranslates(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "out"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	q.fireLast(t)

	langs := language.List(language.VariantRapaNui)
	e.SetLanguages(langs[1], langs[0])
	q.fireLast(t)

	if api.callCount() != 2 {
		t.Fatalf("calls = %d, want re-translation on language change", api.callCount())
	}
	if api.calls[1].SrcLang != langs[1] {
		t.Fatalf("second call used %+v", api.calls[1].SrcLang)
	}
}

func TestStaleResultDropped(t *testing.T) {
	api := &fakeAPI{
		reply:      backend.TranslationResponse{DstText: "stale"},
		block:      make(chan struct{}),
		inProgress: make(chan struct{}, 1),
	}
	e, _ := newTestEngine(api, testOptions())
	e.mu.Lock()
	e.state.SrcText = "hola"
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := e.Translate(context.Background())
		done <- err
	}()
	<-api.inProgress

	e.mu.Lock()
	e.state.SrcText = "changed while in flight"
	e.gen++
	e.mu.Unlock()

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got := e.State().DstText; got == "stale" {
		t.Fatal("stale in-flight result applied over a newer source")
	}
}

func TestFeedback(t *testing.T) {
	api := &fakeAPI{reply: backend.TranslationResponse{DstText: "iorana", ModelName: "nllb", ModelVersion: "3"}}
	e, q := newTestEngine(api, testOptions())

	e.SetSourceText("hola")
	q.fireLast(t)

	if err := e.Accept(context.Background()); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if len(api.accepted) != 1 {
		t.Fatal("positive feedback not submitted")
	}
	fb := api.accepted[0]
	if fb.SrcText != "hola" || fb.DstText != "iorana" || fb.ModelName != "nllb" || fb.ModelVersion != "3" {
		t.Fatalf("accepted payload %+v", fb)
	}
	if fb.Suggestion != "" {
		t.Fatal("positive feedback must not carry a correction")
	}

	if err := e.Reject(context.Background(), "iorana korua"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if len(api.rejected) != 1 || api.rejected[0].Suggestion != "iorana korua" {
		t.Fatalf("rejected payload %+v", api.rejected)
	}

	e.SetSession("", false)
	if err := e.Accept(context.Background()); !errors.Is(err, ErrRestricted) {
		t.Fatalf("anonymous Accept error = %v, want ErrRestricted", err)
	}
}

func TestFeedbackWithoutResult(t *testing.T) {
	e, _ := newTestEngine(&fakeAPI{}, testOptions())
	if err := e.Accept(context.Background()); !errors.Is(err, ErrNoTranslation) {
		t.Fatalf("error = %v, want ErrNoTranslation", err)
	}
}

func TestUnauthorizedTranslationInvokesHook(t *testing.T) {
	api := &fakeAPI{err: &backend.APIError{Status: http.StatusUnauthorized}}
	e, q := newTestEngine(api, testOptions())

	invalidated := make(chan struct{}, 1)
	e.SetOnUnauthorized(func() { invalidated <- struct{}{} })

	e.SetSourceText("hola")
	q.fireLast(t)

	select {
	case <-invalidated:
	case <-time.After(time.Second):
		t.Fatal("unauthorized hook not invoked")
	}
	notices := e.Notices()
	if len(notices) == 0 || notices[len(notices)-1].Kind != NoticeError {
		t.Fatalf("notices = %+v, want a trailing error", notices)
	}
}
