package ir

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PolicyValue is a sealed interface representing the constrained value types
// a generator policy may be built from. Policies are arbitrary,
// generator-specific configuration trees that get canonically encoded and
// hashed into a derived-artifact fingerprint (spec §4.5) — only PolicyValue
// implementations may appear inside a Policy, which keeps the canonical
// encoding total (no floats, no null) the same way the wire envelope is.
type PolicyValue interface {
	policyValue() // sealed - only types in this file implement it
}

// PolicyString is a string-valued policy field.
type PolicyString string

func (PolicyString) policyValue() {}

// PolicyInt is an int64-valued policy field.
type PolicyInt int64

func (PolicyInt) policyValue() {}

// PolicyBool is a bool-valued policy field.
type PolicyBool bool

func (PolicyBool) policyValue() {}

// PolicyList is an ordered sequence of policy values.
type PolicyList []PolicyValue

func (PolicyList) policyValue() {}

// PolicyMap is an unordered set of named policy values. Canonical encoding
// sorts keys lexicographically by UTF-8 byte order — unlike event payload
// fields (which have a fixed declared order), a Policy's shape is
// caller-defined, so there is no declared order to rely on; byte-sorted
// keys are the simplest rule that is stable under re-encoding.
type PolicyMap map[string]PolicyValue

func (PolicyMap) policyValue() {}

// SortedKeys returns the map's keys in canonical (byte-sorted) order.
func (m PolicyMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Policy is the top-level generator configuration hashed into a
// fingerprint request (spec §4.5: "the policy is itself canonically
// encoded and hashed; the policy hash is included, not the raw policy").
type Policy struct {
	Fields PolicyMap
}

// policyTag values identify PolicyValue variants in the canonical encoding.
const (
	policyTagString uint8 = 1
	policyTagInt    uint8 = 2
	policyTagBool   uint8 = 3
	policyTagList   uint8 = 4
	policyTagMap    uint8 = 5
)

// CanonicalEncode writes p as: array-len-prefixed sorted (key,value) pairs.
func (p Policy) CanonicalEncode(w *Writer) {
	encodePolicyMap(w, p.Fields)
}

func encodePolicyValue(w *Writer, v PolicyValue) {
	switch val := v.(type) {
	case PolicyString:
		w.WriteEnumTag(policyTagString)
		w.WriteString(string(val))
	case PolicyInt:
		w.WriteEnumTag(policyTagInt)
		w.WriteInt64(int64(val))
	case PolicyBool:
		w.WriteEnumTag(policyTagBool)
		w.WriteBool(bool(val))
	case PolicyList:
		w.WriteEnumTag(policyTagList)
		w.WriteArrayLen(len(val))
		for _, elem := range val {
			encodePolicyValue(w, elem)
		}
	case PolicyMap:
		w.WriteEnumTag(policyTagMap)
		encodePolicyMap(w, val)
	default:
		panic(fmt.Sprintf("ir: unknown PolicyValue type %T", v))
	}
}

func encodePolicyMap(w *Writer, m PolicyMap) {
	keys := m.SortedKeys()
	w.WriteArrayLen(len(keys))
	for _, k := range keys {
		w.WriteString(k)
		encodePolicyValue(w, m[k])
	}
}

// PolicyHash returns the SHA-256 of the policy's canonical encoding, the
// value carried inside a fingerprint request rather than the raw policy.
func (p Policy) PolicyHash() [32]byte {
	return Sum256(EncodeCanonical(p))
}

// MarshalJSON renders the policy as plain JSON for CLI --format json output.
// Never used on the content-addressing path.
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(policyMapToAny(p.Fields))
}

func policyValueToAny(v PolicyValue) any {
	switch val := v.(type) {
	case PolicyString:
		return string(val)
	case PolicyInt:
		return int64(val)
	case PolicyBool:
		return bool(val)
	case PolicyList:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = policyValueToAny(elem)
		}
		return out
	case PolicyMap:
		return policyMapToAny(val)
	default:
		return nil
	}
}

func policyMapToAny(m PolicyMap) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = policyValueToAny(v)
	}
	return out
}
