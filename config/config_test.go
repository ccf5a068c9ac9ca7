package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestParseConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: 127.0.0.1:1080
  udp: true
  proxy_protocol: true
  users:
    - username: alice
      password: secret
log:
  color: true
  level: debug
`)
	cfg, err := ParseConfigFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1080", cfg.Server.Listen)
	assert.True(t, cfg.Server.Udp)
	assert.True(t, cfg.Server.ProxyProtocol)
	assert.False(t, cfg.Server.HttpFallback)
	assert.Len(t, cfg.Server.Users, 1)
	assert.Equal(t, "alice", cfg.Server.Users[0].Username)
	assert.Equal(t, "debug", cfg.Log.LogLevel)
}

func TestParseConfigFileMissingListen(t *testing.T) {
	path := writeConfig(t, `
server:
  udp: true
`)
	_, err := ParseConfigFile(path)
	assert.Error(t, err)
}

func TestParseConfigFileBadUser(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: :1080
  users:
    - password: nouser
`)
	_, err := ParseConfigFile(path)
	assert.Error(t, err)
}
