package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json format writes structured entries", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Level: "debug", Format: "json", Output: &buf})
		logger.WithField("endpoint", "getOrders").Debug("dispatch")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "dispatch", entry["msg"])
		assert.Equal(t, "getOrders", entry["endpoint"])
		assert.Equal(t, "debug", entry["level"])
	})

	t.Run("unknown level falls back to warn", func(t *testing.T) {
		logger := New(Config{Level: "chatty"})
		assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	})

	t.Run("level filters lower entries", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Level: "warn", Output: &buf})
		logger.Info("hidden")
		assert.Empty(t, buf.String())
		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("nothing") })
}
