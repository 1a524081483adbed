package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "gateway", cfg.TrackerMode)
	assert.Equal(t, 15*time.Second, cfg.TrackerTimeout)
	assert.Equal(t, "US Checked", cfg.CheckedTag)
	assert.Equal(t, 1000, cfg.LLMMaxTokens)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 0.0001)
	assert.Equal(t, "es", cfg.DefaultLanguage)
	assert.True(t, cfg.IsDevLike())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TRACKER_TIMEOUT", "3s")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("TRACKER_BASE_URL", "http://tracker.local/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, 3*time.Second, cfg.TrackerTimeout)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "http://tracker.local", cfg.TrackerBaseURL)
	assert.False(t, cfg.IsDevLike())
}

func TestLoadAcceptsStagingWithSecret(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.True(t, cfg.AuthRequired)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "driver", env: map[string]string{"DATABASE_DRIVER": "sqlite"}},
		{name: "tracker mode", env: map[string]string{"TRACKER_MODE": "jira"}},
		{name: "azure incomplete", env: map[string]string{"TRACKER_MODE": "azure", "AZURE_ORG_URL": "https://dev.azure.com/org"}},
		{name: "provider", env: map[string]string{"LLM_PROVIDER": "cohere"}},
		{name: "language", env: map[string]string{"DEFAULT_LANGUAGE": "fr"}},
		{name: "production secret", env: map[string]string{"ENV": "production", "JWT_SECRET": ""}},
		{name: "staging secret", env: map[string]string{"ENV": "staging", "JWT_SECRET": ""}},
		{name: "auth required secret", env: map[string]string{"AUTH_REQUIRED": "true", "JWT_SECRET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
