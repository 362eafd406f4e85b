package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces identifiers of the form "<prefix>_<suffix>".
type Generator interface {
	NewID(prefix string) string
}

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only alphanumeric characters (0-9, a-z) - no dashes or special characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length*2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// ULIDGenerator yields lexically sortable ids from a monotonic ULID source.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewULID creates a ULID-backed generator.
func NewULID() *ULIDGenerator {
	return &ULIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewID returns "<prefix>_<lower-case ulid>".
func (g *ULIDGenerator) NewID(prefix string) string {
	g.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	g.mu.Unlock()
	return prefix + "_" + strings.ToLower(id.String())
}

// SecureGenerator yields random alphanumeric ids via GenerateSecureID.
type SecureGenerator struct {
	Length int
}

// NewID returns a random id, falling back to a ULID if the system entropy source fails.
func (g SecureGenerator) NewID(prefix string) string {
	length := g.Length
	if length <= 0 {
		length = 16
	}
	id, err := GenerateSecureID(prefix, length)
	if err != nil {
		return NewULID().NewID(prefix)
	}
	return id
}

// Sequence is a deterministic generator for tests: prefix_1, prefix_2, ...
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a deterministic generator.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, s.n.Add(1))
}

// New returns the generator named by strategy ("ulid" or "random").
func New(strategy string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", "ulid":
		return NewULID(), nil
	case "random", "secure":
		return SecureGenerator{Length: 16}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
