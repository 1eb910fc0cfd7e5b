package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"query", "sts3215", "tavily_api_key", "tvly-123", "dangling"})

	assert.Equal(t, []interface{}{"query", "sts3215", "tavily_api_key", "[REDACTED]", "dangling"}, out)
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		assert.NoError(t, err)
		l.With("component", "test").Info("hello", "mode", mode)
	}
	Nop().Warn("discarded")
}
