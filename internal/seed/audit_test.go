package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ptsim/truthcore/internal/ir"
)

func TestAudit_CanonicalEncodeIsDeterministic(t *testing.T) {
	stream := testStream()
	derived := DeriveSeed(42, stream)
	a := NewAudit(stream, 42, derived, AlgorithmFNV1aStreamIdentityV2, 1000)
	b := NewAudit(stream, 42, derived, AlgorithmFNV1aStreamIdentityV2, 1000)

	assert.Equal(t, ir.EncodeCanonical(a), ir.EncodeCanonical(b))
}

func TestAudit_CanonicalEncodeChangesWithDerivedSeed(t *testing.T) {
	stream := testStream()
	a := NewAudit(stream, 42, 1, AlgorithmFNV1aStreamIdentityV2, 1000)
	b := NewAudit(stream, 42, 2, AlgorithmFNV1aStreamIdentityV2, 1000)

	assert.NotEqual(t, ir.EncodeCanonical(a), ir.EncodeCanonical(b))
}

func TestAudit_RecordsStreamKeyNotStructure(t *testing.T) {
	stream := testStream()
	a := NewAudit(stream, 1, 2, AlgorithmFNV1aStreamIdentityV2, 0)
	assert.Equal(t, stream.Key(), a.StreamKey)
}
