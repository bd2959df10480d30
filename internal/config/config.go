package config

import (
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int

	DatabaseURL string

	SessionSecret    []byte
	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	CookieSecure     bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	MediaDir string
	LogLevel string

	StaffUsername string
	StaffPassword string
}

// LoadEnv reads .env into the process environment when present.
func LoadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
}

func Load() Config {
	return Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: EnvDefault("DATABASE_URL", "sqlite:colormania.db"),

		SessionSecret:    sessionSecret(os.Getenv("SESSION_SECRET")),
		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		CookieSecure:     EnvBoolDefault("COOKIE_SECURE", false),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "catalog"),

		MediaDir: EnvDefault("MEDIA_DIR", "media"),
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		StaffUsername: os.Getenv("STAFF_USERNAME"),
		StaffPassword: os.Getenv("STAFF_PASSWORD"),
	}
}

// sessionSecret accepts a raw or base64 secret. An empty value yields a random
// key, which logs every shopper out on restart.
func sessionSecret(v string) []byte {
	if v == "" {
		log.Printf("warning: SESSION_SECRET is empty, generating a random key")
		return securecookie.GenerateRandomKey(32)
	}
	if b, err := base64.StdEncoding.DecodeString(v); err == nil && len(b) >= 32 {
		return b
	}
	return []byte(v)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
