package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	VoterStorageKey = "veltta_voter_id"
	voterPrefix     = "voter_"
	voterRandomLen  = 9
	base36          = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// VoterStorage is the visitor-local key/value storage holding the voter token.
type VoterStorage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type MemoryVoterStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryVoterStorage() *MemoryVoterStorage {
	return &MemoryVoterStorage{values: make(map[string]string)}
}

func (s *MemoryVoterStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok && v != ""
}

func (s *MemoryVoterStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

type VoterAllocator struct {
	storage VoterStorage
	now     func() time.Time
}

func NewVoterAllocator(storage VoterStorage) *VoterAllocator {
	return &VoterAllocator{storage: storage, now: time.Now}
}

// GetVoterIdentifier returns the stored token, allocating and persisting one on first use.
func (a *VoterAllocator) GetVoterIdentifier() string {
	if token, ok := a.storage.Get(VoterStorageKey); ok {
		return token
	}
	token := newVoterToken(a.now())
	a.storage.Set(VoterStorageKey, token)
	return token
}

func newVoterToken(now time.Time) string {
	var b strings.Builder
	b.WriteString(voterPrefix)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < voterRandomLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			n = big.NewInt(now.UnixNano() % int64(len(base36)))
		}
		b.WriteByte(base36[n.Int64()])
	}
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	return b.String()
}

// ValidVoterToken reports whether token has the shape produced by the allocator.
func ValidVoterToken(token string) bool {
	if !strings.HasPrefix(token, voterPrefix) || len(token) > 64 {
		return false
	}
	rest := token[len(voterPrefix):]
	if len(rest) <= voterRandomLen {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(base36, r) {
			return false
		}
	}
	return true
}
