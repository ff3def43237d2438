package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDenylist()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = d.IsRevoked(ctx, "jti-1")
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryDenylist_ExpiredEntry(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDenylist()

	assert.NoError(t, d.Revoke(ctx, "jti-2", time.Now().Add(-time.Second)))
	revoked, err := d.IsRevoked(ctx, "jti-2")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
