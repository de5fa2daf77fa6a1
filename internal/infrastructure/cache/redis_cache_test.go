package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUniversalOptions(t *testing.T) {
	opts, err := buildUniversalOptions("redis://:secret@cache-a:6379/2, cache-b:6380")
	require.NoError(t, err)

	assert.Equal(t, []string{"cache-a:6379", "cache-b:6380"}, opts.Addrs)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestBuildUniversalOptions_Errors(t *testing.T) {
	_, err := buildUniversalOptions(" , ")
	assert.Error(t, err)

	_, err = buildUniversalOptions("redis://cache:6379/not-a-db")
	assert.Error(t, err)
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "  ", zerolog.Nop())
	assert.Error(t, err)
}
