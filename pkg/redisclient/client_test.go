package redisclient

import (
	"testing"
	"time"

	"catalog-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_HostPort(t *testing.T) {
	opts, err := options(config.RedisConfig{
		Addr:        "cache:6379",
		Password:    "pw",
		DB:          2,
		PoolSize:    5,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
}

func TestOptions_URL(t *testing.T) {
	opts, err := options(config.RedisConfig{Addr: "redis://:secret@redis.local:6380/1"})
	require.NoError(t, err)

	assert.Equal(t, "redis.local:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)
}

func TestOptions_BadURL(t *testing.T) {
	_, err := options(config.RedisConfig{Addr: "redis://host:6379/notadb"})
	assert.Error(t, err)
}
