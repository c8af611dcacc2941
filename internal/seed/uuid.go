package seed

import (
	"crypto/sha256"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DeterministicUUID derives a stable, v4-shaped UUID from parts: a SHA-256
// over their newline-joined UTF-8 bytes, taking the first 16 bytes and
// setting the version/variant bits (byte[6] = 0x40|.., byte[8] = 0x80|..)
// so the result parses as a standard UUID. Identical parts always yield
// the identical UUID, across processes and implementations.
func DeterministicUUID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))

	var b [16]byte
	copy(b[:], sum[:16])
	b[6] = 0x40 | (b[6] & 0x0f)
	b[8] = 0x80 | (b[8] & 0x3f)

	id, err := uuid.FromBytes(b[:])
	if err != nil {
		// uuid.FromBytes only fails on a length mismatch; b is always 16 bytes.
		panic(err)
	}
	return id.String()
}

// IDGenerator produces event ids. RandomGenerator and FixedGenerator mirror
// internal/engine/flow.go's UUIDv7Generator/FixedGenerator pair: swap the
// id source for determinism in tests without touching call sites.
type IDGenerator interface {
	Generate() string
}

// RandomGenerator generates non-deterministic UUIDv7 ids for identifiers
// that carry no replay requirement.
type RandomGenerator struct{}

// Generate returns a new UUIDv7 string.
func (RandomGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids in order, for deterministic tests.
type FixedGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedGenerator returns a generator that yields ids in the given order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
// Panics once all ids are exhausted, to fail fast on test misconfiguration.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.ids) {
		panic("seed.FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id
}
