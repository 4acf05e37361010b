package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_PATH", "PRISMIC_API_ENDPOINT", "PRISMIC_ACCESS_TOKEN", "PAGE_SIZE",
		"REVALIDATE", "FALLBACK_WAIT", "SITE_TIMEZONE", "PAGES_BUCKET", "ENV",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

const sampleYAML = `
env: "prod"
prismic:
  endpoint: "https://spacetraveling.cdn.prismic.io/api/v2"
  access_token: "secret"
site:
  page_size: 5
  revalidate: "1h"
storage:
  bucket: "pages"
http:
  port: "8080"
`

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "https://spacetraveling.cdn.prismic.io/api/v2", cfg.Prismic.Endpoint)
	assert.Equal(t, 5, cfg.Site.PageSize)
	assert.Equal(t, time.Hour, cfg.Site.Revalidate)
	assert.Equal(t, "pages", cfg.Storage.Bucket)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "pt-BR", cfg.Site.Locale)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)
	t.Setenv("PAGE_SIZE", "3")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Site.PageSize)
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRISMIC_API_ENDPOINT", "https://example.prismic.io/api/v2")
	t.Setenv("PRISMIC_ACCESS_TOKEN", "token")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Site.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Site.Revalidate)
	assert.Equal(t, 3*time.Second, cfg.Site.FallbackWait)
	assert.Equal(t, "public", cfg.Storage.OutputDir)
	assert.Equal(t, time.UTC, cfg.Site.Location())
}

func TestLoad_MissingCredentialsFailsFast(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.ErrorIs(t, err, ErrConfiguration)

	p := writeFile(t, t.TempDir(), "config.yaml", "env: prod\n")
	_, err = Load(p)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"page size": "PAGE_SIZE",
		"timezone":  "SITE_TIMEZONE",
	}
	values := map[string]string{
		"PAGE_SIZE":     "0",
		"SITE_TIMEZONE": "Mars/Olympus",
	}
	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PRISMIC_API_ENDPOINT", "https://example.prismic.io/api/v2")
			t.Setenv("PRISMIC_ACCESS_TOKEN", "token")
			t.Setenv(key, values[key])

			_, err := Load("")
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestMustLoad_Panics(t *testing.T) {
	clearEnv(t)
	require.Panics(t, func() { MustLoad("") })
}
