package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite:colormania.db", cfg.DatabaseURL)
	assert.Equal(t, "catalog", cfg.ESIndex)
	assert.Len(t, cfg.SessionSecret, 32)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_SECRET", "plain-secret")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("JWT_SECRET", "access")

	cfg := Load()
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("plain-secret"), cfg.SessionSecret)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []byte("access"), cfg.JWTAccessSecret)
}

func TestEnvIntDefault_Invalid(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 5, EnvIntDefault("SOME_INT", 5))
}

func TestMissing(t *testing.T) {
	cfg := Config{DatabaseURL: "sqlite:x.db", StaffUsername: "admin"}
	assert.Equal(t, []string{"JWT_SECRET", "JWT_REFRESH_SECRET", "STAFF_PASSWORD"}, Missing(cfg))

	cfg.JWTAccessSecret = []byte("a")
	cfg.JWTRefreshSecret = []byte("r")
	cfg.StaffPassword = "Admin1234"
	assert.Empty(t, Missing(cfg))
}
