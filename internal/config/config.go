package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// AuthMode is "development" (no auth, all requests get admin) or
	// "jwt" (HMAC bearer tokens). Empty means inferred from ENV.
	AuthMode  string `mapstructure:"AUTH_MODE"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// PathwaysFile optionally points at a YAML file overriding the
	// built-in station pathway tables.
	PathwaysFile string `mapstructure:"PATHWAYS_FILE"`

	// Queue tunables. AgingFactor is priority points added per minute of
	// waiting; MinutesPerPatient drives the estimated-wait heuristic.
	QueueAgingFactor       float64 `mapstructure:"QUEUE_AGING_FACTOR"`
	QueueMinutesPerPatient int     `mapstructure:"QUEUE_MINUTES_PER_PATIENT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("QUEUE_AGING_FACTOR", 2.0)
	v.SetDefault("QUEUE_MINUTES_PER_PATIENT", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("PATHWAYS_FILE")
	v.BindEnv("QUEUE_AGING_FACTOR")
	v.BindEnv("QUEUE_MINUTES_PER_PATIENT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: All requests are treated as authenticated staff. Do NOT use in production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is
// explicitly set, it is returned; otherwise development mode implies the
// no-auth bypass and anything else requires JWT.
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "development"
	}
	return "jwt"
}

// Validate checks that the configuration is safe to run. Outside
// development mode a JWT secret is mandatory so that queue-mutating
// endpoints are actually protected.
func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	if mode != "development" && mode != "jwt" {
		return fmt.Errorf("AUTH_MODE must be \"development\" or \"jwt\", got %q", mode)
	}
	if mode == "jwt" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is \"jwt\" (current ENV=%q)", c.Env)
	}
	if c.QueueAgingFactor < 0 {
		return fmt.Errorf("QUEUE_AGING_FACTOR must not be negative, got %v", c.QueueAgingFactor)
	}
	if c.QueueMinutesPerPatient <= 0 {
		return fmt.Errorf("QUEUE_MINUTES_PER_PATIENT must be positive, got %d", c.QueueMinutesPerPatient)
	}
	return nil
}
