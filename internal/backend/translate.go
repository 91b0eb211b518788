package backend

import (
	"bytes"
	"context"
	"time"

	"github.com/hugozeballos/lenga/internal/language"
)

// Translate requests a machine translation for the given text and language
// pair. Identical requests are always re-sent; the client caches nothing.
func (c *Client) Translate(ctx context.Context, token string, in TranslationRequest) (TranslationResponse, error) {
	var out TranslationResponse
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(in).
		SetResult(&out).
		Post(pathTranslate)
	if err := c.finish("translate", start, rr, err); err != nil {
		return TranslationResponse{}, err
	}
	return out, nil
}

// Transcribe uploads captured audio for transcription. The payload is
// multipart; resty sets the boundary and part headers, the caller supplies
// the audio content type. The hint tells the recognizer which language to
// expect.
func (c *Client) Transcribe(ctx context.Context, token, filename, contentType string, audio []byte, hint string) (Transcription, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	var out Transcription
	start := time.Now()
	r := c.req(ctx, token).
		SetMultipartField("file", filename, contentType, bytes.NewReader(audio)).
		SetResult(&out)
	if hint != "" {
		r.SetMultipartFormData(map[string]string{"source_lang_hint": hint})
	}
	rr, err := r.Post(pathTranscribe)
	if err := c.finish("transcribe", start, rr, err); err != nil {
		return Transcription{}, err
	}
	return out, nil
}

// Languages fetches the language reference list, optionally filtered by
// code, script or dialect.
func (c *Client) Languages(ctx context.Context, token string, filter map[string]string) ([]language.Language, error) {
	return getList[language.Language](ctx, c, token, "languages", pathLanguages, filter)
}
