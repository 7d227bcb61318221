package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Http.Port)
	assert.Equal(t, "random_forest", cfg.Model.Type)
	assert.Equal(t, "DH", cfg.Render.Currency)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 9090
  timeout: 5s
log:
  level: debug
model:
  type: decision_tree
  path: /srv/models/tree.json
  cache_size: 0
render:
  currency: EUR
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Http.Port)
	assert.Equal(t, 5*time.Second, cfg.Http.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "decision_tree", cfg.Model.Type)
	assert.Equal(t, "/srv/models/tree.json", cfg.Model.Path)
	assert.Equal(t, 0, cfg.Model.CacheSize)
	assert.Equal(t, "EUR", cfg.Render.Currency)
	assert.Equal(t, []string{"*"}, cfg.Http.AllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CLAIMCOST_MODEL_PATH", "/tmp/model.json")
	t.Setenv("CLAIMCOST_HTTP_PORT", "7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/model.json", cfg.Model.Path)
	assert.Equal(t, 7000, cfg.Http.Port)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("CLAIMCOST_HTTP_PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "http: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Model.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Http.Port = 70000
	assert.Error(t, cfg.Validate())
}
