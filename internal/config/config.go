// Package config loads application settings from defaults, an optional
// config file, RECIPE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. RECIPE_JWT_SECRET.
const EnvPrefix = "RECIPE"

// Keys understood by Load.
const (
	KeyPort         = "port"
	KeyDatabasePath = "database_path"
	KeyJWTSecret    = "jwt_secret"
	KeyBcryptCost   = "bcrypt_cost"
	KeyCookieSecure = "cookie_secure"
	KeyEnv          = "env"
	KeyLogLevel     = "log_level"
	KeyCORSOrigins  = "cors_origins"
	KeyTrustProxy   = "trust_proxy_headers"
	KeyLoginRate    = "login_rate"
	KeyLoginBurst   = "login_burst"
	KeyTokenTTL     = "token_ttl"
)

const minJWTSecretLen = 32

// Config holds the application configuration.
type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	BcryptCost   int
	CookieSecure bool
	Env          string
	LogLevel     string
	CORSOrigins  []string

	// TrustProxyHeaders makes X-Forwarded-For / X-Real-IP the client address.
	TrustProxyHeaders bool

	// LoginRate is the sustained requests per second allowed per client on
	// the register and token endpoints.
	LoginRate  float64
	LoginBurst int
	TokenTTL   time.Duration
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyDatabasePath, "recipe.db")
	v.SetDefault(KeyJWTSecret, "")
	v.SetDefault(KeyBcryptCost, 12)
	v.SetDefault(KeyCookieSecure, true)
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCORSOrigins, "")
	v.SetDefault(KeyTrustProxy, false)
	v.SetDefault(KeyLoginRate, 1.0)
	v.SetDefault(KeyLoginBurst, 5)
	v.SetDefault(KeyTokenTTL, 24*time.Hour)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file (if one was set on v) and builds a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{
		Port:              v.GetString(KeyPort),
		DatabasePath:      v.GetString(KeyDatabasePath),
		JWTSecret:         v.GetString(KeyJWTSecret),
		BcryptCost:        v.GetInt(KeyBcryptCost),
		CookieSecure:      v.GetBool(KeyCookieSecure),
		Env:               strings.ToLower(v.GetString(KeyEnv)),
		LogLevel:          v.GetString(KeyLogLevel),
		CORSOrigins:       splitList(v.Get(KeyCORSOrigins)),
		TrustProxyHeaders: v.GetBool(KeyTrustProxy),
		LoginRate:         v.GetFloat64(KeyLoginRate),
		LoginBurst:        v.GetInt(KeyLoginBurst),
		TokenTTL:          v.GetDuration(KeyTokenTTL),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if len(c.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d characters", minJWTSecretLen))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("bcrypt_cost must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.LoginRate <= 0 {
		errs = append(errs, errors.New("login_rate must be positive"))
	}
	if c.LoginBurst < 1 {
		errs = append(errs, errors.New("login_burst must be at least 1"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	return errors.Join(errs...)
}

// splitList accepts either a list (config file) or a comma separated string (env, flag).
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
