package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeWithoutHashRoundTrip(t *testing.T) {
	e := EventEnvelope{
		EventID:        "evt-1",
		StreamIdentity: StreamIdentity{VariantID: "baseline", BranchID: "main", Level: 0, Domain: "plate.topology", Model: "default"},
		Tick:           5,
		Sequence:       2,
		PreviousHash:   Sum256([]byte("prev")),
		Payload:        BoundaryTypeChanged{BoundaryID: "b1", Classification: BoundaryDivergent},
	}

	b := EncodeCanonical(e)
	decoded, err := DecodeEnvelopeWithoutHash(NewReader(b))
	require.NoError(t, err)

	assert.Equal(t, e.EventID, decoded.EventID)
	assert.Equal(t, e.StreamIdentity, decoded.StreamIdentity)
	assert.Equal(t, e.Tick, decoded.Tick)
	assert.Equal(t, e.Sequence, decoded.Sequence)
	assert.Equal(t, e.PreviousHash, decoded.PreviousHash)
	assert.Equal(t, e.Payload, decoded.Payload)
	assert.Equal(t, b, EncodeCanonical(decoded))
}

func TestParseTickPolicy(t *testing.T) {
	p, err := ParseTickPolicy("Reject")
	require.NoError(t, err)
	assert.Equal(t, TickPolicyReject, p)

	_, err = ParseTickPolicy("Bogus")
	assert.Error(t, err)
}

func TestTickPolicyString(t *testing.T) {
	assert.Equal(t, "Allow", TickPolicyAllow.String())
	assert.Equal(t, "Warn", TickPolicyWarn.String())
	assert.Equal(t, "Reject", TickPolicyReject.String())
}
