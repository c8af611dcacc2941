package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyHashDeterminism(t *testing.T) {
	p := Policy{Fields: PolicyMap{
		"max_depth": PolicyInt(12),
		"smoothing": PolicyBool(true),
		"kernel":    PolicyString("gaussian"),
	}}

	h1 := p.PolicyHash()
	h2 := p.PolicyHash()
	assert.Equal(t, h1, h2, "same policy must hash identically across calls")
}

func TestPolicyHashIndependentOfMapInsertionOrder(t *testing.T) {
	p1 := Policy{Fields: PolicyMap{
		"zebra": PolicyInt(1),
		"alpha": PolicyInt(2),
	}}
	p2 := Policy{Fields: PolicyMap{
		"alpha": PolicyInt(2),
		"zebra": PolicyInt(1),
	}}

	assert.Equal(t, p1.PolicyHash(), p2.PolicyHash(),
		"PolicyMap keys are sorted before encoding, so insertion order must not matter")
}

func TestPolicyHashChangesWithOneByteDifference(t *testing.T) {
	base := Policy{Fields: PolicyMap{"seed_offset": PolicyInt(100)}}
	changed := Policy{Fields: PolicyMap{"seed_offset": PolicyInt(101)}}

	assert.NotEqual(t, base.PolicyHash(), changed.PolicyHash())
}

func TestPolicyHashWithNestedListsAndMaps(t *testing.T) {
	p := Policy{Fields: PolicyMap{
		"layers": PolicyList{
			PolicyMap{"name": PolicyString("crust"), "active": PolicyBool(true)},
			PolicyMap{"name": PolicyString("mantle"), "active": PolicyBool(false)},
		},
	}}

	h1 := p.PolicyHash()
	h2 := p.PolicyHash()
	assert.Equal(t, h1, h2)
}

func TestPolicySortedKeysIsByteOrdered(t *testing.T) {
	m := PolicyMap{
		"beta":  PolicyInt(1),
		"alpha": PolicyInt(2),
		"gamma": PolicyInt(3),
	}

	keys := m.SortedKeys()
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, keys)
}

func TestPolicyMarshalJSONForDisplay(t *testing.T) {
	p := Policy{Fields: PolicyMap{
		"name":   PolicyString("ridge"),
		"weight": PolicyInt(3),
		"on":     PolicyBool(true),
	}}

	b, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"name":"ridge"`)
	assert.Contains(t, string(b), `"weight":3`)
	assert.Contains(t, string(b), `"on":true`)
}

func TestEmptyPolicyHashesConsistently(t *testing.T) {
	p := Policy{Fields: PolicyMap{}}
	assert.Equal(t, p.PolicyHash(), p.PolicyHash())
}
