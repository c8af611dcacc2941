package ir

// EventEnvelope is the persisted unit of the event store (spec §3): a
// payload plus the identity, ordering, and hash-chain metadata the store
// attaches on append. Sequence, PreviousHash, and Hash are assigned by
// the store, never by the producer — EventDraft is what producers build.
type EventEnvelope struct {
	EventID        string
	StreamIdentity StreamIdentity
	Tick           int64
	Sequence       int64
	PreviousHash   [32]byte
	Hash           [32]byte
	Payload        EventPayload
}

// CanonicalEncode writes the envelope_without_hash fields in the order
// hashed by EventHash: event_id, stream_identity, tick, sequence,
// previous_hash, payload. Hash itself is excluded — it is derived from
// this encoding, not part of it.
func (e EventEnvelope) CanonicalEncode(w *Writer) {
	w.WriteString(e.EventID)
	e.StreamIdentity.CanonicalEncode(w)
	w.WriteInt64(e.Tick)
	w.WriteInt64(e.Sequence)
	w.WriteRawBytes(e.PreviousHash[:])
	EncodePayload(w, e.Payload)
}

// DecodeEnvelopeWithoutHash reads the fields written by CanonicalEncode.
// The caller is responsible for recomputing and attaching Hash.
func DecodeEnvelopeWithoutHash(r *Reader) (EventEnvelope, error) {
	var e EventEnvelope
	var err error
	if e.EventID, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.StreamIdentity, err = DecodeStreamIdentity(r); err != nil {
		return e, err
	}
	if e.Tick, err = r.ReadInt64(); err != nil {
		return e, err
	}
	if e.Sequence, err = r.ReadInt64(); err != nil {
		return e, err
	}
	prev, err := r.ReadRawBytes(32)
	if err != nil {
		return e, err
	}
	copy(e.PreviousHash[:], prev)
	if e.Payload, err = DecodePayload(r); err != nil {
		return e, err
	}
	return e, nil
}

// EventDraft is what a producer (a Driver, a CLI append command) submits
// to the store. The store assigns Sequence, PreviousHash, and Hash and
// returns the completed EventEnvelope.
type EventDraft struct {
	EventID string // optional; Append stores it as given and does not fill in an empty one
	Tick    int64
	Payload EventPayload
}

// TickPolicy governs how the store reacts to a non-monotonic tick on append.
type TickPolicy uint8

const (
	TickPolicyAllow TickPolicy = iota
	TickPolicyWarn
	TickPolicyReject
)

func (p TickPolicy) String() string {
	switch p {
	case TickPolicyAllow:
		return "Allow"
	case TickPolicyWarn:
		return "Warn"
	case TickPolicyReject:
		return "Reject"
	default:
		return "Unknown"
	}
}

// ParseTickPolicy parses the config/CLI string form of a TickPolicy.
func ParseTickPolicy(s string) (TickPolicy, error) {
	switch s {
	case "Allow":
		return TickPolicyAllow, nil
	case "Warn":
		return TickPolicyWarn, nil
	case "Reject":
		return TickPolicyReject, nil
	default:
		return 0, NewInvalidStreamIdentity("tick_policy", "must be one of Allow, Warn, Reject")
	}
}

// Head identifies the most recently appended event on a stream.
type Head struct {
	Sequence int64
	Hash     [32]byte
}

// ExpectedHead is the optimistic-concurrency precondition for Append.
// AnyHead true means "append regardless of current head" (no precondition).
type ExpectedHead struct {
	AnyHead  bool
	Sequence int64
	Hash     [32]byte
}

// AppendOptions configures a single Append call (spec §4.2).
type AppendOptions struct {
	TickPolicy   TickPolicy
	ExpectedHead ExpectedHead
}
