package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("f1", "c1", 2025, 4, "invoice.pdf")

	assert.True(t, strings.HasPrefix(key, "f1/client/c1/period/2025-04/originals/"))
	assert.True(t, strings.HasSuffix(key, "__invoice.pdf"))

	// Same inputs never collide.
	assert.NotEqual(t, key, ObjectKey("f1", "c1", 2025, 4, "invoice.pdf"))
}

func TestObjectKeyPadsMonth(t *testing.T) {
	key := ObjectKey("f1", "c1", 2025, 11, "a.pdf")
	assert.Contains(t, key, "/period/2025-11/")
}
