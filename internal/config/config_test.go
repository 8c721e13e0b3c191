package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("PORT", "")

	cfg := Load()

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "redis", cfg.SessionStore)
	require.Equal(t, "8080", cfg.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_STORE", "cookie")

	cfg := Load()

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "cookie", cfg.SessionStore)
}
