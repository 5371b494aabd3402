package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig

	// Warnings collects values that were rejected in favor of a default.
	// The logger is built from this config, so they are reported afterwards.
	Warnings []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret       string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
	AppEnv  string
	// Timezone names the zone whose calendar day defines "today" and into
	// which plain appointment dates are normalized. Empty means the process
	// local zone.
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

var defaults = map[string]string{
	"DB_HOST":              "localhost",
	"DB_PORT":              "3306",
	"DB_USER":              "root",
	"DB_PASSWORD":          "",
	"DB_NAME":              "hospital_management",
	"JWT_ACCESS_SECRET":    "your-access-secret-key",
	"ACCESS_TOKEN_EXPIRY":  "15m",
	"REFRESH_TOKEN_EXPIRY": "168h",
	"PORT":                 "5000",
	"GIN_MODE":             "debug",
	"APP_ENV":              "development",
	"SERVER_TIMEZONE":      "",
	"LOG_LEVEL":            "info",
	"ALLOWED_ORIGINS":      "http://localhost:3000,http://localhost:5173",
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			GinMode:  v.GetString("GIN_MODE"),
			AppEnv:   v.GetString("APP_ENV"),
			Timezone: v.GetString("SERVER_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(v.GetString("ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
	cfg.JWT.AccessTokenExpiry = cfg.duration(v, "ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	cfg.JWT.RefreshTokenExpiry = cfg.duration(v, "REFRESH_TOKEN_EXPIRY", 168*time.Hour)
	return cfg
}

// LogWarnings reports every rejected value through log
func (c *Config) LogWarnings(log *logrus.Entry) {
	for _, warning := range c.Warnings {
		log.Warn(warning)
	}
}

// IsProduction reports whether dev-only routes must stay disabled.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.AppEnv, "production")
}

// Location resolves the server timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_TIMEZONE %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

func (c *Config) duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	duration, err := time.ParseDuration(raw)
	if err != nil || duration <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("Invalid duration %q for %s, using %s", raw, key, fallback))
		return fallback
	}
	return duration
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
