package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ptsim/truthcore/internal/ir"
)

func testStream() ir.StreamIdentity {
	return ir.StreamIdentity{VariantID: "baseline", BranchID: "main", Level: 0, Domain: "plate.topology", Model: "default"}
}

func TestDeriveSeed_Deterministic(t *testing.T) {
	stream := testStream()
	assert.Equal(t, DeriveSeed(42, stream), DeriveSeed(42, stream))
}

func TestDeriveSeed_DiffersByScenarioSeed(t *testing.T) {
	stream := testStream()
	assert.NotEqual(t, DeriveSeed(1, stream), DeriveSeed(2, stream))
}

func TestDeriveSeed_DiffersByEachIdentityComponent(t *testing.T) {
	base := testStream()
	baseSeed := DeriveSeed(42, base)

	variant := base
	variant.VariantID = "other"
	assert.NotEqual(t, baseSeed, DeriveSeed(42, variant))

	branch := base
	branch.BranchID = "other"
	assert.NotEqual(t, baseSeed, DeriveSeed(42, branch))

	level := base
	level.Level = 1
	assert.NotEqual(t, baseSeed, DeriveSeed(42, level))

	domain := base
	domain.Domain = "plate.kinematics"
	assert.NotEqual(t, baseSeed, DeriveSeed(42, domain))

	model := base
	model.Model = "other"
	assert.NotEqual(t, baseSeed, DeriveSeed(42, model))
}

func TestDeriveSeed_LengthPrefixingPreventsSegmentCollision(t *testing.T) {
	a := ir.StreamIdentity{VariantID: "a", BranchID: "bc", Domain: "plate.topology", Model: "m"}
	b := ir.StreamIdentity{VariantID: "ab", BranchID: "c", Domain: "plate.topology", Model: "m"}
	assert.NotEqual(t, DeriveSeed(1, a), DeriveSeed(1, b))
}

func TestNewRNG_DeterministicSequence(t *testing.T) {
	seed := DeriveSeed(42, testStream())

	r1 := NewRNG(seed)
	r2 := NewRNG(seed)

	for i := 0; i < 10; i++ {
		a := r1.Uint64()
		b := r2.Uint64()
		assert.Equal(t, a, b, "rngs seeded identically must produce identical sequences")
	}
}

func TestNewRNG_DiffersAcrossSeeds(t *testing.T) {
	r1 := NewRNG(1)
	r2 := NewRNG(2)
	assert.NotEqual(t, r1.Uint64(), r2.Uint64())
}
