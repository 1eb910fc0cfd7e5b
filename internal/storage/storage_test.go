package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/exports/a.json", PublicURL("https://cdn.example.com", "bucket", "exports/a.json"))
	assert.Equal(t, "https://bucket/exports/a.json", PublicURL("", "bucket", "exports/a.json"))
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	key := ObjectKey("exports", "abc", ".xlsx", now)

	assert.True(t, strings.HasPrefix(key, "exports/2026/03/04/abc-"), key)
	assert.True(t, strings.HasSuffix(key, ".xlsx"), key)
	assert.NotEqual(t, key, ObjectKey("exports", "abc", ".xlsx", now))
}
