package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	ProfilesFile   string `mapstructure:"profiles_file"`
	DefaultProfile string `mapstructure:"default_profile"`
	PublishersFile string `mapstructure:"publishers_file"`

	CookieStoreType       string        `mapstructure:"cookie_store_type"`
	CookieDBPath          string        `mapstructure:"cookie_db_path"`
	CookieSessionSeconds  int64         `mapstructure:"cookie_session_ttl_seconds"`
	CookieCleanupSeconds  int64         `mapstructure:"cookie_cleanup_interval_seconds"`
	CookieSessionTTL      time.Duration `mapstructure:"-"`
	CookieCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "reqctl")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("profiles_file", "")
	v.SetDefault("default_profile", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("cookie_store_type", "none")
	v.SetDefault("cookie_db_path", "./data/cookies.db")
	v.SetDefault("cookie_session_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("cookie_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ProfilesFile = strings.TrimSpace(cfg.ProfilesFile)
	cfg.DefaultProfile = strings.TrimSpace(cfg.DefaultProfile)
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)
	cfg.CookieStoreType = strings.ToLower(strings.TrimSpace(cfg.CookieStoreType))

	if cfg.DefaultProfile != "" && cfg.ProfilesFile == "" {
		return nil, fmt.Errorf("default_profile %q set without profiles_file", cfg.DefaultProfile)
	}
	if cfg.CookieSessionSeconds <= 0 {
		return nil, fmt.Errorf("invalid cookie_session_ttl_seconds (must be positive seconds)")
	}
	if cfg.CookieCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid cookie_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.CookieSessionTTL = time.Duration(cfg.CookieSessionSeconds) * time.Second
	cfg.CookieCleanupInterval = time.Duration(cfg.CookieCleanupSeconds) * time.Second

	return &cfg, nil
}
