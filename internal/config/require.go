package config

import (
	"log"
	"strings"
)

// Missing lists the environment variables the server cannot start without.
func Missing(cfg Config) []string {
	var out []string
	if cfg.DatabaseURL == "" {
		out = append(out, "DATABASE_URL")
	}
	if len(cfg.JWTAccessSecret) == 0 {
		out = append(out, "JWT_SECRET")
	}
	if len(cfg.JWTRefreshSecret) == 0 {
		out = append(out, "JWT_REFRESH_SECRET")
	}
	if cfg.StaffUsername != "" && cfg.StaffPassword == "" {
		out = append(out, "STAFF_PASSWORD")
	}
	return out
}

func MustComplete(cfg Config) {
	if missing := Missing(cfg); len(missing) > 0 {
		log.Fatalf("missing required env %s", strings.Join(missing, ", "))
	}
}
