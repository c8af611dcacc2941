package testutil

// FixedEventIDGenerator generates the same event id every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario run with the same FixedEventIDGenerator produces
// byte-identical encoded envelopes.
//
// Unlike seed.FixedGenerator, which returns ids in sequence, this generator
// always returns the same id. Useful for scenarios where uniqueness of the
// id doesn't matter to the assertion being made, only its determinism.
//
// Thread-safety: FixedEventIDGenerator is stateless and safe for concurrent use.
type FixedEventIDGenerator struct {
	id string
}

// NewFixedEventIDGenerator creates a new fixed event-id generator.
//
// If id is empty, Generate() returns "test-event-default".
func NewFixedEventIDGenerator(id string) *FixedEventIDGenerator {
	if id == "" {
		id = "test-event-default"
	}
	return &FixedEventIDGenerator{id: id}
}

// Generate returns the fixed event id.
func (g *FixedEventIDGenerator) Generate() string {
	return g.id
}
