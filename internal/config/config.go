package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds server settings. Values load from an optional YAML file
// and GYMDESK_* environment variables; env always wins so deployments
// can override a checked-in file without editing it.
type Config struct {
	Server struct {
		Addr       string `yaml:"addr"`
		StaticDir  string `yaml:"static_dir"`
		UploadsDir string `yaml:"uploads_dir"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Admin struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Email struct {
		ResendKey string `yaml:"resend_key"`
		From      string `yaml:"from"`
	} `yaml:"email"`
	Env string `yaml:"env"`
}

// Defaults that apply when neither file nor environment provides a value.
const (
	DefaultAddr       = ":8080"
	DefaultDBPath     = "gymdesk.db"
	DefaultStaticDir  = "static"
	DefaultUploadsDir = "uploads"
	DefaultEmailFrom  = "GymDesk <noreply@gymdesk.example>"
)

// ReadTimeout bounds slow clients; generous because receipt uploads
// ride ordinary form POSTs.
const ReadTimeout = 30 * time.Second

// Load reads path (when it exists) and applies environment overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// File is optional; env and defaults carry the config.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Env == "production" && cfg.Admin.Password == "" {
		return Config{}, fmt.Errorf("admin password is required in production (set GYMDESK_ADMIN_PASSWORD)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfEnv(&cfg.Server.Addr, "GYMDESK_ADDR")
	setIfEnv(&cfg.Server.StaticDir, "GYMDESK_STATIC_DIR")
	setIfEnv(&cfg.Server.UploadsDir, "GYMDESK_UPLOADS_DIR")
	setIfEnv(&cfg.Database.Path, "GYMDESK_DB_PATH")
	setIfEnv(&cfg.Admin.Username, "GYMDESK_ADMIN_USERNAME")
	setIfEnv(&cfg.Admin.Email, "GYMDESK_ADMIN_EMAIL")
	setIfEnv(&cfg.Admin.Password, "GYMDESK_ADMIN_PASSWORD")
	setIfEnv(&cfg.Email.ResendKey, "GYMDESK_RESEND_KEY")
	setIfEnv(&cfg.Email.From, "GYMDESK_RESEND_FROM")
	setIfEnv(&cfg.Env, "GYMDESK_ENV")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = DefaultStaticDir
	}
	if cfg.Server.UploadsDir == "" {
		cfg.Server.UploadsDir = DefaultUploadsDir
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDBPath
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@gymdesk.example"
	}
	if cfg.Email.From == "" {
		cfg.Email.From = DefaultEmailFrom
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
}

// DSN builds the SQLite connection string with the pragmas every
// connection needs (WAL, foreign keys, busy timeout).
func (c Config) DSN() string {
	return c.Database.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}

// IsProduction reports whether the server runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
