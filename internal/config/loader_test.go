package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmhive/orchestrator/pkg/utils/crypto"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
name: "testswarm"
server:
  host: "127.0.0.1"
  port: 4000
  read_timeout: 10s
logger:
  level: "debug"
  encoding: "json"
database:
  enabled: true
  host: "dbhost"
  port: 5433
  user: "u"
  password: "p"
  name: "swarm"
  sslmode: "disable"
advisor:
  provider: "anthropic"
  model: "claude-3-5-sonnet-20241022"
  timeout: 20s
trading:
  base_url: "https://quote-api.jup.ag"
  slippage_bps: 75
telemetry:
  max_activities: 250
  retention: 72h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testswarm", cfg.Name)
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Address())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "host=dbhost port=5433 user=u password=p dbname=swarm sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "anthropic", cfg.Advisor.Provider)
	assert.Equal(t, 20*time.Second, cfg.Advisor.Timeout)
	assert.Equal(t, "https://quote-api.jup.ag", cfg.Trading.BaseURL)
	assert.Equal(t, 75, cfg.Trading.SlippageBps)
	assert.Equal(t, 250, cfg.Telemetry.MaxActivities)
	assert.Equal(t, 72*time.Hour, cfg.Telemetry.Retention)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DecryptsAPIKeys(t *testing.T) {
	encrypted, err := crypto.Encrypt("sk-plain-key", "master-key")
	require.NoError(t, err)

	path := writeConfig(t, `
security:
  encryption_key: "master-key"
advisor:
  api_key: "`+encrypted+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-plain-key", cfg.Advisor.APIKey)
}

func TestLoad_PlainKeysWithoutEncryption(t *testing.T) {
	path := writeConfig(t, `
advisor:
  api_key: "sk-plain-key"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-plain-key", cfg.Advisor.APIKey)
}

func TestLoad_BadCipherTextFails(t *testing.T) {
	path := writeConfig(t, `
security:
  encryption_key: "master-key"
advisor:
  api_key: "not-encrypted"
`)

	_, err := Load(path)
	assert.Error(t, err)
}
