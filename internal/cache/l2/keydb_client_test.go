package l2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-storefront-proxy/internal/config"
)

func TestClientOptions(t *testing.T) {
	cfg := &config.KeyDBConfig{
		Connection: config.ConnectionConfig{ConnectTimeout: 2 * time.Second, ReadTimeout: 3 * time.Second},
		Keepalive:  config.KeepaliveConfig{PoolSize: 4},
	}

	opts, err := clientOptions(cfg, "redis://:secret@keydb.internal:6380/2")
	require.NoError(t, err)

	assert.Equal(t, "keydb.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)
	assert.Equal(t, time.Second, opts.WriteTimeout)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 10*time.Second, opts.IdleTimeout)
	assert.Nil(t, opts.TLSConfig)
}

func TestClientOptions_TLS(t *testing.T) {
	opts, err := clientOptions(&config.KeyDBConfig{}, "rediss://keydb.internal")
	require.NoError(t, err)

	assert.Equal(t, "keydb.internal:6379", opts.Addr)
	assert.NotNil(t, opts.TLSConfig)
}

func TestClientOptions_InvalidURL(t *testing.T) {
	_, err := clientOptions(&config.KeyDBConfig{}, "http://keydb:6379")
	assert.Error(t, err)
}

func TestNewRedisKeyDbClient_Unreachable(t *testing.T) {
	cfg := &config.KeyDBConfig{Connection: config.ConnectionConfig{ConnectTimeout: 200 * time.Millisecond}}

	_, err := NewRedisKeyDbClient(cfg, "redis://127.0.0.1:1", zaptest.NewLogger(t))
	assert.Error(t, err)
}
