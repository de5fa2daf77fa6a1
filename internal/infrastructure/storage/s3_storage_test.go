package storage

import (
	"context"
	"encoding/base64"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/config"
	"roottrack-api/internal/domain/workflow"
)

// 1x1 transparent PNG
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestInspectImage(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)

	info, err := InspectImage(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.MIME)
	assert.Equal(t, "png", info.Extension)
	assert.Equal(t, len(data), info.Size)
}

func TestInspectImage_RejectsNonImages(t *testing.T) {
	_, err := InspectImage([]byte("%PDF-1.4 not a root photo"))
	assert.Error(t, err)

	_, err = InspectImage(nil)
	assert.Error(t, err)
}

func TestNewImageKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := NewImageKey("jpg", now)
	second := NewImageKey("jpg", now)

	assert.Regexp(t, regexp.MustCompile(`^roots/[0-9a-z]{26}\.jpg$`), first)
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second)
}

func TestS3Storage_DisabledWithoutCredentials(t *testing.T) {
	store, err := NewS3Storage(context.Background(), &config.Config{S3Region: "us-west-2"}, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, store.Enabled())
	_, err = store.Put(context.Background(), workflow.ImageInfo{MIME: "image/png", Extension: "png"}, []byte{1})
	assert.ErrorIs(t, err, errStorageDisabled)
	assert.NoError(t, store.Health(context.Background()))
}
