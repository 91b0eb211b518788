// Package language holds the static language reference data the client works
// with. The lists are bundled per product variant and are immutable for the
// lifetime of a session; the backend's languages endpoint serves the same data
// and is only consulted for display purposes.
package language

import (
	"fmt"
	"strings"
)

// Language identifies a translatable language as the backend models it. Code
// is an opaque identifier such as "spa_Latn"; Writing is the writing-system
// tag and Dialect an optional dialect tag.
type Language struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Writing string `json:"writing"`
	Dialect string `json:"dialect,omitempty"`
}

// Variant selects which endangered language a deployed instance targets.
type Variant string

const (
	// VariantRapaNui targets Rapa Nui (rap).
	VariantRapaNui Variant = "rap"
	// VariantMapuzungun targets Mapuzungun (arn).
	VariantMapuzungun Variant = "arn"
)

// BaseCode is the code prefix of the base language every variant pairs with.
const BaseCode = "spa"

// Parse validates a variant string from configuration.
func Parse(s string) (Variant, error) {
	switch Variant(s) {
	case VariantRapaNui, VariantMapuzungun:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("unknown variant %q (want rap or arn)", s)
	}
}

// Title returns the display name of the variant's target language.
func (v Variant) Title() string {
	if v == VariantMapuzungun {
		return "Mapuzungun"
	}
	return "Rapa Nui"
}

// Spanish is the base language shared by every variant.
var Spanish = Language{Code: "spa_Latn", Name: "Español", Writing: "Latn"}

var rapaNui = []Language{
	{Code: "rap_Latn", Name: "Rapa Nui", Writing: "Latn"},
}

var mapuzungun = []Language{
	{Code: "arn_a0_n", Name: "Azümchefe Nguluche", Writing: "a0", Dialect: "n"},
	{Code: "arn_a0_h", Name: "Huilliche Azümchefe", Writing: "a0", Dialect: "h"},
	{Code: "arn_r0_n", Name: "Raguileo Nguluche", Writing: "r0", Dialect: "n"},
	{Code: "arn_u0_n", Name: "Unificado Nguluche", Writing: "u0", Dialect: "n"},
}

// List returns the bundled reference list for the variant, base language
// first. The returned slice is a copy.
func List(v Variant) []Language {
	var target []Language
	switch v {
	case VariantMapuzungun:
		target = mapuzungun
	default:
		target = rapaNui
	}
	out := make([]Language, 0, len(target)+1)
	out = append(out, Spanish)
	out = append(out, target...)
	return out
}

// ByCode looks up a language of the variant's list by its code.
func ByCode(v Variant, code string) (Language, bool) {
	for _, l := range List(v) {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// DefaultPair returns the initial (source, destination) languages for a
// translator session: Spanish into the variant's primary target.
func DefaultPair(v Variant) (src, dst Language) {
	if v == VariantMapuzungun {
		return Spanish, mapuzungun[1] // Huilliche Azümchefe, the original default
	}
	return Spanish, rapaNui[0]
}

// Hint infers the transcription language hint from a source language code.
// Only the code prefix matters; unknown prefixes fall back to the variant's
// target and finally to Spanish.
func Hint(code string, v Variant) string {
	c := strings.ToLower(code)
	switch {
	case strings.Contains(c, "spa"):
		return "spa_Latn"
	case strings.Contains(c, "rap"):
		return "rap_Latn"
	case strings.Contains(c, "arn"):
		return "arn_Latn"
	}
	switch v {
	case VariantRapaNui:
		return "rap_Latn"
	case VariantMapuzungun:
		return "arn_Latn"
	}
	return "spa_Latn"
}
