// Package recorder drives the speech-capture flow: audio chunks stream in
// while a recording is open, and stopping hands the capture to the
// transcription backend.
package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/language"
)

// Phase is the recorder's lifecycle position.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseRecording    Phase = "recording"
	PhaseTranscribing Phase = "transcribing"
	PhaseDone         Phase = "done"
	PhaseError        Phase = "error"
)

var (
	// ErrAlreadyRecording is returned by Start while a capture is open.
	// The open capture must be stopped first; it is never discarded
	// implicitly.
	ErrAlreadyRecording = errors.New("recorder: stop the current recording first")
	// ErrNotRecording is returned when chunks arrive outside a capture.
	ErrNotRecording = errors.New("recorder: no recording open")
	// ErrTooLarge is returned when a capture exceeds the size cap.
	ErrTooLarge = errors.New("recorder: recording exceeds the size limit")
	// ErrUnsupportedType is returned for audio formats the backend
	// cannot transcribe.
	ErrUnsupportedType = errors.New("recorder: unsupported audio format")
	// ErrEmptyRecording is returned by Stop when no audio arrived.
	ErrEmptyRecording = errors.New("recorder: recording is empty")
)

// audioExt maps accepted upload types to the filename extension the
// transcription service expects.
var audioExt = map[string]string{
	"audio/webm":  "webm",
	"audio/ogg":   "ogg",
	"audio/mpeg":  "mp3",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/mp4":   "m4a",
}

type transcriber interface {
	Transcribe(ctx context.Context, token, filename, contentType string, audio []byte, hint string) (backend.Transcription, error)
}

// Options configure a Recorder.
type Options struct {
	// MaxBytes caps the capture size. Zero disables the cap.
	MaxBytes int64
	// Mock skips the backend and returns a canned transcript.
	Mock bool
	// Autofill, when set, receives the transcript after a successful
	// transcription, typically feeding the translation source pane.
	Autofill func(transcript string)
}

// State is a snapshot of the recorder for the client.
type State struct {
	Phase      Phase  `json:"phase"`
	Bytes      int64  `json:"bytes"`
	Transcript string `json:"transcript,omitempty"`
	Detected   string `json:"detected_language,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Recorder is the capture state machine for one workspace. Safe for
// concurrent use.
type Recorder struct {
	api     transcriber
	variant language.Variant
	opts    Options

	mu          sync.Mutex
	phase       Phase
	contentType string
	buf         bytes.Buffer
	transcript  string
	detected    string
	lastErr     string
}

// New builds an idle Recorder.
func New(api transcriber, v language.Variant, opts Options) *Recorder {
	return &Recorder{api: api, variant: v, opts: opts, phase: PhaseIdle}
}

// State returns a snapshot.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{
		Phase:      r.phase,
		Bytes:      int64(r.buf.Len()),
		Transcript: r.transcript,
		Detected:   r.detected,
		Error:      r.lastErr,
	}
}

// Start opens a capture in the given audio format. A recorder holding an
// open capture refuses to start another one.
func (r *Recorder) Start(contentType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case PhaseRecording, PhaseTranscribing:
		return ErrAlreadyRecording
	}
	if _, ok := audioExt[contentType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	r.phase = PhaseRecording
	r.contentType = contentType
	r.buf.Reset()
	r.transcript = ""
	r.detected = ""
	r.lastErr = ""
	return nil
}

// Push appends an audio chunk to the open capture.
func (r *Recorder) Push(chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseRecording {
		return ErrNotRecording
	}
	if r.opts.MaxBytes > 0 && int64(r.buf.Len()+len(chunk)) > r.opts.MaxBytes {
		r.phase = PhaseError
		r.lastErr = ErrTooLarge.Error()
		return ErrTooLarge
	}
	r.buf.Write(chunk)
	return nil
}

// Stop closes the capture and transcribes it. srcLangCode selects the
// language hint sent to the speech model. On success the transcript is
// stored, handed to the autofill hook if one is configured, and returned.
func (r *Recorder) Stop(ctx context.Context, token, srcLangCode string) (string, error) {
	r.mu.Lock()
	if r.phase != PhaseRecording {
		r.mu.Unlock()
		return "", ErrNotRecording
	}
	if r.buf.Len() == 0 {
		r.phase = PhaseIdle
		r.mu.Unlock()
		return "", ErrEmptyRecording
	}
	r.phase = PhaseTranscribing
	audio := make([]byte, r.buf.Len())
	copy(audio, r.buf.Bytes())
	contentType := r.contentType
	r.mu.Unlock()

	hint := language.Hint(srcLangCode, r.variant)
	filename := "recording." + audioExt[contentType]

	var tr backend.Transcription
	var err error
	if r.opts.Mock {
		tr = mockTranscription(r.variant)
	} else {
		tr, err = r.api.Transcribe(ctx, token, filename, contentType, audio, hint)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.phase = PhaseError
		r.lastErr = "transcription failed"
		slog.Error("transcription failed", "hint", hint, "bytes", len(audio), "error", err)
		return "", err
	}
	r.phase = PhaseDone
	r.transcript = tr.Transcript
	r.detected = tr.DetectedLanguage
	if r.opts.Autofill != nil && tr.Transcript != "" {
		r.opts.Autofill(tr.Transcript)
	}
	return tr.Transcript, nil
}

// Reset discards any result or error and returns the recorder to idle. A
// recording in progress is dropped.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseTranscribing {
		return
	}
	r.phase = PhaseIdle
	r.buf.Reset()
	r.transcript = ""
	r.detected = ""
	r.lastErr = ""
}

func mockTranscription(v language.Variant) backend.Transcription {
	if v == language.VariantMapuzungun {
		return backend.Transcription{Transcript: "mari mari", DetectedLanguage: "arn"}
	}
	return backend.Transcription{Transcript: "iorana korua", DetectedLanguage: "rap"}
}
