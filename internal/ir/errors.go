package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes the structured error kinds of spec §7.
type ErrorCode string

const (
	ErrCodeConcurrencyConflict   ErrorCode = "CONCURRENCY_CONFLICT"
	ErrCodeTickPolicyViolation   ErrorCode = "TICK_POLICY_VIOLATION"
	ErrCodeHashChainMismatch     ErrorCode = "HASH_CHAIN_MISMATCH"
	ErrCodeCorruptArtifact       ErrorCode = "CORRUPT_ARTIFACT"
	ErrCodeInvalidStreamIdentity ErrorCode = "INVALID_STREAM_IDENTITY"
	ErrCodeNotFound              ErrorCode = "NOT_FOUND"
	ErrCodeStorageUnavailable    ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeCancelled             ErrorCode = "CANCELLED"
)

// TruthError is the structured error type every component in the truth
// substrate returns for expected failure modes (spec §7): a kind tag plus
// contextual fields, never a bare string. Grounded on the teacher's
// engine.RuntimeError (internal/engine/errors.go) — same Code/Message/
// Details shape, same errors.As-based predicate helpers below.
type TruthError struct {
	Code    ErrorCode
	Message string
	Stream  string // StreamIdentity.Key(), when applicable
	Details map[string]string
}

func (e *TruthError) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("%s: %s (stream=%s)", e.Code, e.Message, e.Stream)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newTruthError(code ErrorCode, stream, format string, args ...any) *TruthError {
	return &TruthError{Code: code, Message: fmt.Sprintf(format, args...), Stream: stream}
}

// NewConcurrencyConflict reports an expected-head mismatch on append.
func NewConcurrencyConflict(stream string, expectedSeq, actualSeq int64) *TruthError {
	e := newTruthError(ErrCodeConcurrencyConflict, stream,
		"expected head sequence %d, found %d", expectedSeq, actualSeq)
	e.Details = map[string]string{
		"expected_sequence": fmt.Sprintf("%d", expectedSeq),
		"actual_sequence":   fmt.Sprintf("%d", actualSeq),
	}
	return e
}

// NewTickPolicyViolation reports a non-monotonic tick rejected under Reject policy.
func NewTickPolicyViolation(stream string, tick, highestPersistedTick int64) *TruthError {
	e := newTruthError(ErrCodeTickPolicyViolation, stream,
		"tick %d is not >= highest persisted tick %d", tick, highestPersistedTick)
	e.Details = map[string]string{
		"tick":                    fmt.Sprintf("%d", tick),
		"highest_persisted_tick":  fmt.Sprintf("%d", highestPersistedTick),
	}
	return e
}

// NewHashChainMismatch reports a stored hash disagreeing with recomputation.
func NewHashChainMismatch(stream string, sequence int64) *TruthError {
	e := newTruthError(ErrCodeHashChainMismatch, stream,
		"stored hash at sequence %d disagrees with recomputation", sequence)
	e.Details = map[string]string{"sequence": fmt.Sprintf("%d", sequence)}
	return e
}

// NewCorruptArtifact reports a payload hash mismatch on artifact read.
func NewCorruptArtifact(fingerprint string) *TruthError {
	e := newTruthError(ErrCodeCorruptArtifact, "", "payload hash mismatch for fingerprint %s", fingerprint)
	e.Details = map[string]string{"fingerprint": fingerprint}
	return e
}

// NewInvalidStreamIdentity reports a malformed StreamIdentity component.
func NewInvalidStreamIdentity(field, reason string) *TruthError {
	e := newTruthError(ErrCodeInvalidStreamIdentity, "", "%s: %s", field, reason)
	e.Details = map[string]string{"field": field}
	return e
}

// NewNotFound reports an absent snapshot or manifest.
func NewNotFound(kind, key string) *TruthError {
	e := newTruthError(ErrCodeNotFound, "", "%s not found: %s", kind, key)
	e.Details = map[string]string{"kind": kind, "key": key}
	return e
}

// NewStorageUnavailable wraps a backend I/O failure.
func NewStorageUnavailable(cause error) *TruthError {
	e := newTruthError(ErrCodeStorageUnavailable, "", "storage unavailable: %v", cause)
	return e
}

// NewCancelled reports a caller-requested abort.
func NewCancelled(op string) *TruthError {
	return newTruthError(ErrCodeCancelled, "", "operation cancelled: %s", op)
}

// codeIs reports whether err is a *TruthError with the given code.
func codeIs(err error, code ErrorCode) bool {
	var te *TruthError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func IsConcurrencyConflict(err error) bool { return codeIs(err, ErrCodeConcurrencyConflict) }
func IsTickPolicyViolation(err error) bool { return codeIs(err, ErrCodeTickPolicyViolation) }
func IsHashChainMismatch(err error) bool   { return codeIs(err, ErrCodeHashChainMismatch) }
func IsCorruptArtifact(err error) bool     { return codeIs(err, ErrCodeCorruptArtifact) }
func IsNotFound(err error) bool            { return codeIs(err, ErrCodeNotFound) }
func IsStorageUnavailable(err error) bool  { return codeIs(err, ErrCodeStorageUnavailable) }
func IsCancelled(err error) bool           { return codeIs(err, ErrCodeCancelled) }

// IsRetryable reports whether err is eligible for automatic retry per spec
// §7: only ConcurrencyConflict and transient StorageUnavailable.
func IsRetryable(err error) bool {
	return IsConcurrencyConflict(err) || IsStorageUnavailable(err)
}
