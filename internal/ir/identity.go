package ir

import (
	"strconv"
	"strings"
)

// StreamIdentity is the tuple that keys every event stream: two streams are
// equal iff every component is equal (spec §3). Identity is immutable once
// constructed; every storage key and cache fingerprint is derived from it.
type StreamIdentity struct {
	VariantID string
	BranchID  string
	Level     int32
	Domain    string // dotted path, e.g. "plate.boundary"
	Model     string
}

// Equal reports whether id and other key the same stream.
func (id StreamIdentity) Equal(other StreamIdentity) bool {
	return id == other
}

// Validate enforces spec §3: every string component non-empty, domain a
// dotted path (at least one '.' separated segment, no empty segments).
func (id StreamIdentity) Validate() error {
	if id.VariantID == "" {
		return NewInvalidStreamIdentity("variant_id", "must not be empty")
	}
	if id.BranchID == "" {
		return NewInvalidStreamIdentity("branch_id", "must not be empty")
	}
	if id.Domain == "" {
		return NewInvalidStreamIdentity("domain", "must not be empty")
	}
	if id.Model == "" {
		return NewInvalidStreamIdentity("model", "must not be empty")
	}
	for _, segment := range strings.Split(id.Domain, ".") {
		if segment == "" {
			return NewInvalidStreamIdentity("domain", "must be a dotted path with no empty segments")
		}
	}
	return nil
}

// CanonicalEncode writes the fields in the declared order:
// variant_id, branch_id, level, domain, model.
func (id StreamIdentity) CanonicalEncode(w *Writer) {
	w.WriteString(id.VariantID)
	w.WriteString(id.BranchID)
	w.WriteInt32(id.Level)
	w.WriteString(id.Domain)
	w.WriteString(id.Model)
}

// DecodeStreamIdentity reads a StreamIdentity in CanonicalEncode's field order.
func DecodeStreamIdentity(r *Reader) (StreamIdentity, error) {
	var id StreamIdentity
	var err error
	if id.VariantID, err = r.ReadString(); err != nil {
		return id, err
	}
	if id.BranchID, err = r.ReadString(); err != nil {
		return id, err
	}
	if id.Level, err = r.ReadInt32(); err != nil {
		return id, err
	}
	if id.Domain, err = r.ReadString(); err != nil {
		return id, err
	}
	if id.Model, err = r.ReadString(); err != nil {
		return id, err
	}
	return id, nil
}

// Key renders the identity as the slash-joined path used in storage key
// layouts (spec §6): <variant>/<branch>/<level>/<domain>/<model>.
func (id StreamIdentity) Key() string {
	var b strings.Builder
	b.WriteString(id.VariantID)
	b.WriteByte('/')
	b.WriteString(id.BranchID)
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(int(id.Level)))
	b.WriteByte('/')
	b.WriteString(id.Domain)
	b.WriteByte('/')
	b.WriteString(id.Model)
	return b.String()
}
