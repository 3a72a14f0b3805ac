package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Host          string
	Port          int
	DatabaseURL   string
	SessionSecret string
	SessionSalt   string
	DataDir       string
	LogLevel      string
	BaseURL       string
	RunMigrations bool
	Debug         bool
	Threaded      bool

	// EphemeralSecret is set when no SESSION_SECRET was configured and a
	// random one was generated for this process.
	EphemeralSecret bool
}

// Load reads configuration from defaults, an optional file named by
// CONFIG_FILE, and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8111)
	v.SetDefault("database_url", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_salt", "campusmart-session")
	v.SetDefault("data_dir", "data")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://localhost:8111")
	v.SetDefault("run_migrations", true)
	v.SetDefault("debug", false)
	v.SetDefault("threaded", false)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Host:          v.GetString("host"),
		Port:          v.GetInt("port"),
		DatabaseURL:   v.GetString("database_url"),
		SessionSecret: v.GetString("session_secret"),
		SessionSalt:   v.GetString("session_salt"),
		DataDir:       v.GetString("data_dir"),
		LogLevel:      strings.ToLower(v.GetString("log_level")),
		BaseURL:       v.GetString("base_url"),
		RunMigrations: v.GetBool("run_migrations"),
		Debug:         v.GetBool("debug"),
		Threaded:      v.GetBool("threaded"),
	}

	var missing []string

	if cfg.DatabaseURL == "" {
		if cfg.DataDir == "" {
			missing = append(missing, "DATABASE_URL or DATA_DIR (one must be set)")
		}
		cfg.DatabaseURL = filepath.Join(cfg.DataDir, "campusmart.db")
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
		cfg.SessionSecret = secret
		cfg.EphemeralSecret = true
	} else if len(cfg.SessionSecret) < 32 {
		missing = append(missing, "SESSION_SECRET (must be at least 32 characters)")
	}
	if cfg.SessionSalt == "" {
		missing = append(missing, "SESSION_SALT (must not be empty)")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		missing = append(missing, "PORT (must be between 1 and 65535)")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing or invalid configuration: %v", missing)
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Secure reports whether cookies should carry the Secure attribute.
func (c *Config) Secure() bool {
	return strings.HasPrefix(c.BaseURL, "https")
}
