package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, "WARN", "json")
	require.NoError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Str("plant_id", "p1").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "p1", line["plant_id"])
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestNewWithWriter_Rejects(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestSetLogger_ReplacesFallback(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		global = nil
		mu.Unlock()
	})

	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())

	var buf bytes.Buffer
	configured, err := NewWithWriter(&buf, "debug", "json")
	require.NoError(t, err)
	SetLogger(configured)

	current := GetLogger()
	current.Debug().Msg("configured")
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
	assert.Contains(t, buf.String(), "configured")
}
