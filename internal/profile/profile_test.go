package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDefaults(t *testing.T) {
	p, err := FromViper(NewViper(), "")
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, 8081, p.Port)
	assert.Equal(t, "Europe/Madrid", p.DefaultTimezone)
	assert.Equal(t, "none", p.LLMProvider)
	assert.False(t, p.IsLLMEnabled())
	assert.True(t, p.WeekendSkip)
	assert.Equal(t, 12, p.DefaultHour)
	assert.False(t, p.MorningWindow)
	assert.Equal(t, time.Friday, p.MorningWeekday())
	assert.Equal(t, 7, p.AmbiguousHourPMThreshold)
	assert.True(t, p.CorrectPastWeekdays)
	assert.True(t, p.AssignDefaultHour)
	assert.True(t, p.PromoteAmbiguousHour)
	assert.Equal(t, 12*time.Second, p.ModelTimeout)
	assert.Equal(t, 10*time.Minute, p.FallbackCacheTTL)
}

func TestProfileFromEnv(t *testing.T) {
	t.Setenv("FECHADOR_PORT", "9090")
	t.Setenv("FECHADOR_TIMEZONE", "Atlantic/Canary")
	t.Setenv("FECHADOR_POLICY_DEFAULT_HOUR", "14")
	t.Setenv("FECHADOR_POLICY_WEEKEND_SKIP", "false")
	t.Setenv("FECHADOR_LLM_PROVIDER", "DeepSeek")
	t.Setenv("FECHADOR_LLM_API_KEY", "secret")
	t.Setenv("FECHADOR_RATE_LIMIT_RPS", "2.5")

	p, err := FromViper(NewViper(), "")
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, 9090, p.Port)
	assert.Equal(t, "Atlantic/Canary", p.DefaultTimezone)
	assert.Equal(t, 14, p.DefaultHour)
	assert.False(t, p.WeekendSkip)
	assert.Equal(t, "deepseek", p.LLMProvider)
	assert.True(t, p.IsLLMEnabled())
	assert.Equal(t, 2.5, p.RateLimitRPS)
}

func TestProfileConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fechador.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: prod\npolicy:\n  morning-window: true\n  morning-window-weekday: thursday\n"), 0o600))

	p, err := FromViper(NewViper(), path)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.False(t, p.IsDev())
	assert.True(t, p.MorningWindow)
	assert.Equal(t, time.Thursday, p.MorningWeekday())
}

func TestProfileValidate(t *testing.T) {
	valid := func() *Profile {
		p, err := FromViper(NewViper(), "")
		require.NoError(t, err)
		return p
	}

	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"bad timezone", func(p *Profile) { p.DefaultTimezone = "Mars/Olympus" }},
		{"default hour too large", func(p *Profile) { p.DefaultHour = 24 }},
		{"threshold too large", func(p *Profile) { p.AmbiguousHourPMThreshold = 12 }},
		{"unknown weekday", func(p *Profile) { p.MorningWindowWeekday = "viernes" }},
		{"unknown provider", func(p *Profile) { p.LLMProvider = "ollama" }},
		{"provider without key", func(p *Profile) { p.LLMProvider = "anthropic" }},
		{"bad port", func(p *Profile) { p.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			assert.Error(t, p.Validate())
		})
	}

	t.Run("unknown mode falls back to dev", func(t *testing.T) {
		p := valid()
		p.Mode = "demo"
		require.NoError(t, p.Validate())
		assert.Equal(t, "dev", p.Mode)
	})
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FECHADOR_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FECHADOR_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("FECHADOR_TEST_DOTENV"))

	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
