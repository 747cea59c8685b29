// Package config materializes process configuration into an explicit struct
// injected at startup, so the token service, mailer, and seed routine stay
// testable in isolation.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the process needs to serve. Populated from the
// environment (and an optional config file) via viper.
type Config struct {
	Host        string
	Port        int
	CORSOrigins []string

	MongoURI      string
	MongoDatabase string

	// JWTSecret signs session tokens. The process refuses to serve without it.
	JWTSecret string

	Bootstrap BootstrapAdmin
	SMTP      SMTP
}

// BootstrapAdmin is the admin record seeded on first startup.
type BootstrapAdmin struct {
	Email    string
	Password string
	Name     string
}

// SMTP is the outbound mail configuration. Empty credentials disable mail.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// env key bindings; the env names are the deployment contract.
var bindings = map[string]string{
	"server.host":      "HOST",
	"server.port":      "PORT",
	"server.cors":      "CORS_ORIGINS",
	"mongo.uri":        "MONGODB_URI",
	"mongo.database":   "MONGODB_DATABASE",
	"auth.jwt_secret":  "JWT_SECRET",
	"bootstrap.email":  "ADMIN_EMAIL",
	"bootstrap.pass":   "ADMIN_PASSWORD",
	"bootstrap.name":   "ADMIN_NAME",
	"smtp.host":        "EMAIL_HOST",
	"smtp.port":        "EMAIL_PORT",
	"smtp.user":        "EMAIL_USER",
	"smtp.pass":        "EMAIL_PASS",
	"smtp.from":        "EMAIL_FROM",
	"smtp.notify_to":   "ADMIN_EMAIL_TO",
}

// Load reads configuration from the given viper instance. Defaults match the
// original deployment; validation failures are fatal startup conditions for
// the caller.
func Load(v *viper.Viper) (*Config, error) {
	for key, env := range bindings {
		v.BindEnv(key, env)
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 2000)
	v.SetDefault("mongo.database", "siteapi")
	v.SetDefault("bootstrap.email", "admin@petrotech.com")
	v.SetDefault("bootstrap.pass", "admin123")
	v.SetDefault("bootstrap.name", "System Administrator")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.notify_to", "admin@petrotech.com")

	cfg := &Config{
		Host:          v.GetString("server.host"),
		Port:          v.GetInt("server.port"),
		CORSOrigins:   splitOrigins(v.GetString("server.cors")),
		MongoURI:      v.GetString("mongo.uri"),
		MongoDatabase: v.GetString("mongo.database"),
		JWTSecret:     v.GetString("auth.jwt_secret"),
		Bootstrap: BootstrapAdmin{
			Email:    v.GetString("bootstrap.email"),
			Password: v.GetString("bootstrap.pass"),
			Name:     v.GetString("bootstrap.name"),
		},
		SMTP: SMTP{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.user"),
			Password: v.GetString("smtp.pass"),
			From:     v.GetString("smtp.from"),
			To:       v.GetString("smtp.notify_to"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fatal startup conditions.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
