package usecase

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var voterTokenPattern = regexp.MustCompile(`^voter_[0-9a-z]{9}[0-9]+$`)

func TestGetVoterIdentifier_AllocatesOnce(t *testing.T) {
	storage := NewMemoryVoterStorage()
	allocator := NewVoterAllocator(storage)
	allocator.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first := allocator.GetVoterIdentifier()
	assert.Regexp(t, voterTokenPattern, first)
	assert.Contains(t, first, "1700000000000")

	stored, ok := storage.Get(VoterStorageKey)
	assert.True(t, ok)
	assert.Equal(t, first, stored)

	assert.Equal(t, first, allocator.GetVoterIdentifier())
}

func TestGetVoterIdentifier_ReusesStoredToken(t *testing.T) {
	storage := NewMemoryVoterStorage()
	storage.Set(VoterStorageKey, "voter_existing1234")

	assert.Equal(t, "voter_existing1234", NewVoterAllocator(storage).GetVoterIdentifier())
}

func TestGetVoterIdentifier_EmptyValueIsReplaced(t *testing.T) {
	storage := NewMemoryVoterStorage()
	storage.Set(VoterStorageKey, "")

	token := NewVoterAllocator(storage).GetVoterIdentifier()
	assert.True(t, ValidVoterToken(token))
}

func TestNewVoterToken_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token := newVoterToken(now)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestValidVoterToken(t *testing.T) {
	tests := []struct {
		token string
		valid bool
	}{
		{newVoterToken(time.Now()), true},
		{"voter_abc123def1700000000000", true},
		{"", false},
		{"voter_", false},
		{"voter_abc", false},
		{"user_abc123def1700000000000", false},
		{"voter_ABC123DEF1700000000000", false},
		{"voter_abc123def17000'; DROP", false},
		{"voter_" + string(make([]byte, 80)), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidVoterToken(tt.token), tt.token)
	}
}
