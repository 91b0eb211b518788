package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hugozeballos/lenga/internal/language"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected default read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Translator.Debounce != 1500*time.Millisecond {
		t.Errorf("expected default debounce 1.5s, got %v", cfg.Translator.Debounce)
	}
	if cfg.Translator.WarningFor != 3*time.Second {
		t.Errorf("expected default warning duration 3s, got %v", cfg.Translator.WarningFor)
	}
	if cfg.Backend.SlowAfter != 5*time.Second {
		t.Errorf("expected default slow threshold 5s, got %v", cfg.Backend.SlowAfter)
	}
	if cfg.ASR.MaxAudioMB != 25 {
		t.Errorf("expected default max audio 25 MB, got %d", cfg.ASR.MaxAudioMB)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 9090
  host: "127.0.0.1"
  read_timeout: 10s
  write_timeout: 15s
backend:
  base_url: "https://api.translator.example"
  timeout: 20s
  slow_after: 4s
variant: arn
translator:
  max_words: 80
  debounce: 2s
  requires_auth: true
asr:
  enabled: true
  autofill_transcript: true
  max_audio_mb: 10
session:
  cookie_name: session
  workspace_ttl: 10m
cors:
  allowed_origins: ["https://example.com"]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "https://api.translator.example" {
		t.Errorf("expected backend url override, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.SlowAfter != 4*time.Second {
		t.Errorf("expected slow threshold 4s, got %v", cfg.Backend.SlowAfter)
	}
	if cfg.LanguageVariant() != language.VariantMapuzungun {
		t.Errorf("expected variant arn, got %s", cfg.Variant)
	}
	if cfg.Translator.MaxWords != 80 {
		t.Errorf("expected max words 80, got %d", cfg.Translator.MaxWords)
	}
	if !cfg.Translator.RequiresAuth {
		t.Error("expected requires_auth true")
	}
	if cfg.MaxAudioBytes() != 10<<20 {
		t.Errorf("expected max audio 10 MiB, got %d", cfg.MaxAudioBytes())
	}
	// Values not present in the file keep their defaults.
	if cfg.Translator.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Translator.Debounce)
	}
	if cfg.Translator.SwapSettle != time.Second {
		t.Errorf("expected default swap settle 1s, got %v", cfg.Translator.SwapSettle)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("expected cors origins [https://example.com], got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path should use defaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
}

func TestLoadRejectsUnknownVariant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("variant: xx\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LENGA_BACKEND_URL", "https://env.translator.example")
	t.Setenv("LENGA_PORT", "3000")
	t.Setenv("LENGA_HOST", "10.0.0.1")
	t.Setenv("LENGA_VARIANT", "arn")
	t.Setenv("LENGA_COOKIE_KEY", "aabb")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "https://env.translator.example" {
		t.Errorf("expected env backend url, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("expected host 10.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Variant != "arn" {
		t.Errorf("expected variant arn, got %s", cfg.Variant)
	}
	if cfg.Session.CookieKey != "aabb" {
		t.Errorf("expected cookie key from env, got %s", cfg.Session.CookieKey)
	}
}

func TestEnvExpansionInFile(t *testing.T) {
	t.Setenv("TEST_BACKEND_URL", "https://expanded.example")

	content := `
backend:
  base_url: "${TEST_BACKEND_URL}"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "https://expanded.example" {
		t.Errorf("expected expanded url, got %s", cfg.Backend.BaseURL)
	}
}
