package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv("COTREE_CONF", filepath.Join(t.TempDir(), "missing.yaml"))

	conf := GetConfig()
	assert.Equal(t, "127.0.0.1:1234", conf.Relay.Addr)
	assert.Equal(t, 16<<20, conf.Relay.MaxFrame)
	assert.Equal(t, int64(42), conf.Client.InitialValue)
	assert.Empty(t, conf.Relay.AdminAddr)
}

func TestReadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cotree.yaml")
	yaml := `
relay:
  addr: 0.0.0.0:4000
  admin_addr: 127.0.0.1:4001
client:
  peer: alice
  initial_value: 7
theme:
  highlight: yellow
`
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0644))
	t.Setenv("COTREE_CONF", file)

	conf := GetConfig()
	assert.Equal(t, "0.0.0.0:4000", conf.Relay.Addr)
	assert.Equal(t, "127.0.0.1:4001", conf.Relay.AdminAddr)
	assert.Equal(t, 16<<20, conf.Relay.MaxFrame, "unset values keep their default")
	assert.Equal(t, "alice", conf.Client.Peer)
	assert.Equal(t, int64(7), conf.Client.InitialValue)
	assert.Equal(t, "127.0.0.1:1234", conf.Client.Addr)
	assert.Equal(t, "yellow", conf.Theme.Highlight)
	assert.Equal(t, "white", conf.Theme.Text)
}

func TestInvalidYamlFallsBack(t *testing.T) {
	assert.Equal(t, DefaultConfig, Parse([]byte("relay: [unterminated")))
}
