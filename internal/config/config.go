package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MaxTokenTTL acota expires_in de cualquier preset.
	MaxTokenTTL = 7200 * time.Second

	// MaxCodeTTL acota el TTL de authorization codes.
	MaxCodeTTL = 600 * time.Second

	defaultCodeTTL = 120 * time.Second
)

// Config es la configuración raíz del servidor (YAML + overrides por env).
type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr    string `yaml:"addr"`
		BaseURL string `yaml:"base_url"` // issuer efectivo, ej: http://localhost:8080
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
		MetadataTTL string `yaml:"metadata_ttl"` // cache de discovery/JWKS
	} `yaml:"cache"`

	OAuth struct {
		CodeTTL       string `yaml:"code_ttl"`       // default 120s, max 600s
		SweepInterval string `yaml:"sweep_interval"` // default 1m
	} `yaml:"oauth"`

	Presets struct {
		Active string   `yaml:"active"`
		Items  []Preset `yaml:"items"`
	} `yaml:"presets"`
}

// Preset describe una identidad simulada declarada en configuración.
// El registry la convierte en su representación inmutable.
type Preset struct {
	Name              string         `yaml:"name"`
	ClientID          string         `yaml:"client_id"`
	RedirectURI       string         `yaml:"redirect_uri"`
	Subject           string         `yaml:"subject"`
	Scopes            []string       `yaml:"scopes"`
	TokenTTLSeconds   int64          `yaml:"token_ttl_seconds"`
	SigningKeyID      string         `yaml:"signing_key_id"`
	Email             string         `yaml:"email"`
	FullName          string         `yaml:"full_name"`
	PreferredUsername string         `yaml:"preferred_username"`
	Groups            []string       `yaml:"groups"`
	CustomClaims      map[string]any `yaml:"custom_claims"`
}

// Load lee el YAML (si existe), aplica defaults y overrides de env.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "dev"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Cache.Kind == "" {
		cfg.Cache.Kind = "memory"
	}
	if cfg.Cache.MetadataTTL == "" {
		cfg.Cache.MetadataTTL = "15s"
	}
	if cfg.OAuth.CodeTTL == "" {
		cfg.OAuth.CodeTTL = "120s"
	}
	if cfg.OAuth.SweepInterval == "" {
		cfg.OAuth.SweepInterval = "1m"
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROXIMA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PROXIMA_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("PROXIMA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PROXIMA_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("PROXIMA_CACHE_KIND"); v != "" {
		cfg.Cache.Kind = v
	}
	if v := os.Getenv("PROXIMA_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
}

func validate(cfg *Config) error {
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	if _, err := cfg.CodeTTL(); err != nil {
		return err
	}
	if _, err := cfg.SweepInterval(); err != nil {
		return err
	}
	if _, err := cfg.MetadataTTL(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(cfg.Presets.Items))
	for i := range cfg.Presets.Items {
		p := &cfg.Presets.Items[i]
		if p.Name == "" {
			return fmt.Errorf("config: preset %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("config: duplicate preset name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.ClientID == "" || p.RedirectURI == "" || p.Subject == "" {
			return fmt.Errorf("config: preset %q missing client_id, redirect_uri or subject", p.Name)
		}
		if p.TokenTTLSeconds <= 0 {
			p.TokenTTLSeconds = 3600
		}
		if p.TokenTTLSeconds > int64(MaxTokenTTL/time.Second) {
			return fmt.Errorf("config: preset %q token_ttl_seconds %d exceeds max %d",
				p.Name, p.TokenTTLSeconds, int64(MaxTokenTTL/time.Second))
		}
		if p.SigningKeyID == "" {
			p.SigningKeyID = "default"
		}
		if len(p.Scopes) == 0 {
			p.Scopes = []string{"openid", "profile", "email"}
		}
	}

	if cfg.Presets.Active != "" {
		if _, ok := seen[cfg.Presets.Active]; !ok {
			return fmt.Errorf("config: active preset %q not declared", cfg.Presets.Active)
		}
	}
	return nil
}

// CodeTTL retorna el TTL de authorization codes, acotado por MaxCodeTTL.
func (c *Config) CodeTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.OAuth.CodeTTL)
	if err != nil {
		return 0, fmt.Errorf("config: oauth.code_ttl: %w", err)
	}
	if d <= 0 {
		d = defaultCodeTTL
	}
	if d > MaxCodeTTL {
		d = MaxCodeTTL
	}
	return d, nil
}

// SweepInterval retorna el intervalo del sweeper de codes.
func (c *Config) SweepInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.OAuth.SweepInterval)
	if err != nil {
		return 0, fmt.Errorf("config: oauth.sweep_interval: %w", err)
	}
	if d <= 0 {
		d = time.Minute
	}
	return d, nil
}

// MetadataTTL retorna el TTL del cache de discovery/JWKS.
func (c *Config) MetadataTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.MetadataTTL)
	if err != nil {
		return 0, fmt.Errorf("config: cache.metadata_ttl: %w", err)
	}
	if d < 0 {
		d = 0
	}
	return d, nil
}
