package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONOutputWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: DebugLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	lgr := Component("claims")
	lgr.Info().Str("email", "a@b.test").Msg("claim received")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "claims", entry["component"])
	assert.Equal(t, "a@b.test", entry["email"])
	assert.Equal(t, "claim received", entry["message"])
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "loud", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}
