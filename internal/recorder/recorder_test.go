package recorder

import (
	"context"
	"errors"
	"testing"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/language"
)

type fakeTranscriber struct {
	gotFilename    string
	gotContentType string
	gotAudio       []byte
	gotHint        string
	reply          backend.Transcription
	err            error
	calls          int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, filename, contentType string, audio []byte, hint string) (backend.Transcription, error) {
	f.calls++
	f.gotFilename = filename
	f.gotContentType = contentType
	f.gotAudio = audio
	f.gotHint = hint
	return f.reply, f.err
}

func TestRecordAndTranscribe(t *testing.T) {
	api := &fakeTranscriber{reply: backend.Transcription{Transcript: "iorana", DetectedLanguage: "rap"}}
	var filled string
	r := New(api, language.VariantRapaNui, Options{
		Autofill: func(s string) { filled = s },
	})

	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Push([]byte("chunk-1")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := r.Push([]byte("chunk-2")); err != nil {
		t.Fatalf("Push: %v", err)
	}

	got, err := r.Stop(context.Background(), "tok", "rap_Latn")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got != "iorana" {
		t.Fatalf("transcript = %q", got)
	}
	if filled != "iorana" {
		t.Fatalf("autofill got %q", filled)
	}
	if api.gotFilename != "recording.webm" || api.gotContentType != "audio/webm" {
		t.Fatalf("upload named %q type %q", api.gotFilename, api.gotContentType)
	}
	if string(api.gotAudio) != "chunk-1chunk-2" {
		t.Fatalf("audio = %q", api.gotAudio)
	}
	if api.gotHint != "rap_Latn" {
		t.Fatalf("hint = %q", api.gotHint)
	}
	s := r.State()
	if s.Phase != PhaseDone || s.Detected != "rap" {
		t.Fatalf("state after stop: %+v", s)
	}
}

func TestStartWhileRecordingRefused(t *testing.T) {
	r := New(&fakeTranscriber{}, language.VariantRapaNui, Options{})
	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start("audio/webm"); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("second Start error = %v, want ErrAlreadyRecording", err)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	r := New(&fakeTranscriber{}, language.VariantRapaNui, Options{})
	if err := r.Start("video/mp4"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestSizeCap(t *testing.T) {
	r := New(&fakeTranscriber{}, language.VariantRapaNui, Options{MaxBytes: 10})
	if err := r.Start("audio/wav"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Push(make([]byte, 8)); err != nil {
		t.Fatalf("Push under cap: %v", err)
	}
	if err := r.Push(make([]byte, 8)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("error = %v, want ErrTooLarge", err)
	}
	if r.State().Phase != PhaseError {
		t.Fatal("oversized capture must end in the error phase")
	}
	r.Reset()
	if r.State().Phase != PhaseIdle {
		t.Fatal("Reset must return to idle")
	}
}

func TestPushOutsideCapture(t *testing.T) {
	r := New(&fakeTranscriber{}, language.VariantRapaNui, Options{})
	if err := r.Push([]byte("x")); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("error = %v, want ErrNotRecording", err)
	}
	if _, err := r.Stop(context.Background(), "tok", "rap"); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("Stop error = %v, want ErrNotRecording", err)
	}
}

func TestEmptyRecording(t *testing.T) {
	api := &fakeTranscriber{}
	r := New(api, language.VariantRapaNui, Options{})
	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := r.Stop(context.Background(), "tok", "rap"); !errors.Is(err, ErrEmptyRecording) {
		t.Fatalf("error = %v, want ErrEmptyRecording", err)
	}
	if api.calls != 0 {
		t.Fatal("empty capture must not reach the backend")
	}
	if r.State().Phase != PhaseIdle {
		t.Fatal("empty stop must return to idle")
	}
}

func TestTranscriptionFailure(t *testing.T) {
	api := &fakeTranscriber{err: errors.New("boom")}
	r := New(api, language.VariantRapaNui, Options{})
	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Push([]byte("audio")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := r.Stop(context.Background(), "tok", "rap"); err == nil {
		t.Fatal("expected transcription error")
	}
	s := r.State()
	if s.Phase != PhaseError || s.Error == "" {
		t.Fatalf("state after failure: %+v", s)
	}
	// A new capture is allowed after an error.
	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start after error: %v", err)
	}
}

func TestHintFallsBackToVariant(t *testing.T) {
	api := &fakeTranscriber{reply: backend.Transcription{Transcript: "x"}}
	r := New(api, language.VariantMapuzungun, Options{})
	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Push([]byte("audio")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := r.Stop(context.Background(), "tok", "unknown_code"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if api.gotHint != language.Hint("unknown_code", language.VariantMapuzungun) {
		t.Fatalf("hint = %q", api.gotHint)
	}
}

func TestMockMode(t *testing.T) {
	api := &fakeTranscriber{}
	r := New(api, language.VariantMapuzungun, Options{Mock: true})
	if err := r.Start("audio/webm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Push([]byte("audio")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got, err := r.Stop(context.Background(), "", "arn")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got == "" {
		t.Fatal("mock mode must return a transcript")
	}
	if api.calls != 0 {
		t.Fatal("mock mode must not reach the backend")
	}
}
