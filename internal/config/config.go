package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hugozeballos/lenga/internal/language"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Variant    string           `yaml:"variant"`
	Translator TranslatorConfig `yaml:"translator"`
	ASR        ASRConfig        `yaml:"asr"`
	Session    SessionConfig    `yaml:"session"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	CORS       CORSConfig       `yaml:"cors"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// BackendConfig points the gateway at the translation platform API.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// SlowAfter is the advisory threshold after which a still-running
	// translation surfaces a "taking longer than expected" notice. The
	// request itself is never aborted.
	SlowAfter time.Duration `yaml:"slow_after"`
}

type TranslatorConfig struct {
	MaxWords     int           `yaml:"max_words"`
	Debounce     time.Duration `yaml:"debounce"`
	WarningFor   time.Duration `yaml:"warning_for"`
	SwapSettle   time.Duration `yaml:"swap_settle"`
	RequiresAuth bool          `yaml:"requires_auth"`
}

type ASRConfig struct {
	Enabled            bool `yaml:"enabled"`
	AutofillTranscript bool `yaml:"autofill_transcript"`
	Mock               bool `yaml:"mock"`
	MaxAudioMB         int  `yaml:"max_audio_mb"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	// CookieKey is a hex-encoded 32-byte key used to seal the token cookie.
	// Empty disables sealing (development only).
	CookieKey     string        `yaml:"cookie_key"`
	WorkspaceTTL  time.Duration `yaml:"workspace_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type RateLimitConfig struct {
	Login  int           `yaml:"login"`
	Window time.Duration `yaml:"window"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // default: [] (same-origin only when empty; ["*"] for dev)
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if _, err := language.Parse(cfg.Variant); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   30 * time.Second,
			SlowAfter: 5 * time.Second,
		},
		Variant: string(language.VariantRapaNui),
		Translator: TranslatorConfig{
			MaxWords:   50,
			Debounce:   1500 * time.Millisecond,
			WarningFor: 3 * time.Second,
			SwapSettle: time.Second,
		},
		ASR: ASRConfig{
			MaxAudioMB: 25,
		},
		Session: SessionConfig{
			CookieName:    "lenga_token",
			WorkspaceTTL:  30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Login:  10,
			Window: time.Minute,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LENGA_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("LENGA_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LENGA_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LENGA_VARIANT"); v != "" {
		cfg.Variant = v
	}
	if v := os.Getenv("LENGA_COOKIE_KEY"); v != "" {
		cfg.Session.CookieKey = v
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LanguageVariant returns the parsed product variant. Load has already
// validated it.
func (c *Config) LanguageVariant() language.Variant {
	v, _ := language.Parse(c.Variant)
	return v
}

// MaxAudioBytes is the audio upload size limit in bytes.
func (c *Config) MaxAudioBytes() int64 {
	return int64(c.ASR.MaxAudioMB) << 20
}
