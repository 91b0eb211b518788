package backend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hugozeballos/lenga/internal/language"
)

// SuggestionFilter selects which suggestions to list.
type SuggestionFilter struct {
	Page      int
	Lang      string // comma-separated destination language codes
	Validated bool
	Correct   bool // only meaningful for validated listings
}

// ListSuggestions fetches one page of suggestions.
func (c *Client) ListSuggestions(ctx context.Context, token string, f SuggestionFilter) (Page[Suggestion], error) {
	q := map[string]string{
		"page":      strconv.Itoa(f.Page),
		"lang":      f.Lang,
		"validated": strconv.FormatBool(f.Validated),
	}
	if f.Validated && f.Correct {
		q["correct"] = "true"
	}
	return getPage[Suggestion](ctx, c, token, "list_suggestions", pathSuggestions, q)
}

// SuggestionInput creates a new, unvalidated suggestion from user feedback.
type SuggestionInput struct {
	SrcText    string            `json:"src_text"`
	DstText    string            `json:"dst_text"`
	SrcLang    language.Language `json:"src_lang"`
	DstLang    language.Language `json:"dst_lang"`
	Suggestion string            `json:"suggestion"`
}

// CreateSuggestion records a correction proposed by a user.
func (c *Client) CreateSuggestion(ctx context.Context, token string, in SuggestionInput) (Suggestion, error) {
	var out Suggestion
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(in).
		SetResult(&out).
		Post(pathSuggestions)
	if err := c.finish("create_suggestion", start, rr, err); err != nil {
		return Suggestion{}, err
	}
	return out, nil
}

// TranslationFeedback is the feedback payload, referencing the model that
// produced the translation. Suggestion carries the user's correction on
// negative feedback.
type TranslationFeedback struct {
	SrcText      string            `json:"src_text"`
	DstText      string            `json:"dst_text"`
	SrcLang      language.Language `json:"src_lang"`
	DstLang      language.Language `json:"dst_lang"`
	Suggestion   string            `json:"suggestion,omitempty"`
	ModelName    string            `json:"model_name"`
	ModelVersion string            `json:"model_version"`
}

// AcceptTranslation records positive feedback on a machine translation.
func (c *Client) AcceptTranslation(ctx context.Context, token string, in TranslationFeedback) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(in).
		Post(pathSuggestions + "accept_translation/")
	return c.finish("accept_translation", start, rr, err)
}

// RejectTranslation records negative feedback, creating a new unvalidated
// suggestion from the user's correction.
func (c *Client) RejectTranslation(ctx context.Context, token string, in TranslationFeedback) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(in).
		Post(pathSuggestions + "reject_translation/")
	return c.finish("reject_translation", start, rr, err)
}

// UpdateSuggestion edits an already-validated suggestion's texts.
func (c *Client) UpdateSuggestion(ctx context.Context, token string, id int, srcText, dstText string) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]string{"src_text": srcText, "dst_text": dstText}).
		Patch(fmt.Sprintf("%s%d/", pathSuggestions, id))
	return c.finish("update_suggestion", start, rr, err)
}

// AcceptSuggestion validates a community suggestion, optionally with an
// admin's edits.
func (c *Client) AcceptSuggestion(ctx context.Context, token string, id int, srcText, updatedSuggestion string) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]string{
			"src_text":           srcText,
			"updated_suggestion": updatedSuggestion,
		}).
		Patch(fmt.Sprintf("%s%d/accept_suggestion/", pathSuggestions, id))
	return c.finish("accept_suggestion", start, rr, err)
}

// RejectSuggestion discards a community suggestion.
func (c *Client) RejectSuggestion(ctx context.Context, token string, id int) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		Patch(fmt.Sprintf("%s%d/reject_suggestion/", pathSuggestions, id))
	return c.finish("reject_suggestion", start, rr, err)
}
