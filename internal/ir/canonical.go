package ir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"
)

// Writer accumulates the canonical binary encoding described in spec §4.1:
// little-endian two's-complement integers, IEEE-754 binary64 floats,
// length-prefixed UTF-8 strings, length-prefixed homogeneous arrays,
// a one-byte presence tag for optional values, and a one-byte tag for
// enum variants. Every persisted envelope, manifest, snapshot, and
// fingerprint input goes through a Writer so that re-encoding a decoded
// value always yields byte-identical output.
//
// CRITICAL: this is the only serialization used for content-addressed
// identity (event hash, fingerprint). Never substitute encoding/json here.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty canonical Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated canonical encoding.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteBool writes a single-byte boolean (0x00 or 0x01).
func (w *Writer) WriteBool(b bool) {
	if b {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteInt32 writes a 4-byte little-endian two's-complement integer.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint32 writes a 4-byte little-endian unsigned integer.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt64 writes an 8-byte little-endian two's-complement integer.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteUint64 writes an 8-byte little-endian unsigned integer.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteFloat64 writes an IEEE-754 binary64 value, bit-exact, little-endian.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteRawBytes writes raw bytes with no length prefix. Use only for
// fixed-width fields whose length is implied by the schema (hashes).
func (w *Writer) WriteRawBytes(b []byte) {
	w.buf.Write(b)
}

// WriteBytes writes a uint32-length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf.Write(b)
}

// WriteString NFC-normalizes s and writes it as a uint32-length-prefixed
// UTF-8 byte string.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(norm.NFC.String(s)))
}

// WriteOptionalTag writes the one-byte presence tag for an optional value.
// Callers write the value's encoding immediately after when present is true.
func (w *Writer) WriteOptionalTag(present bool) {
	w.WriteBool(present)
}

// WriteEnumTag writes a compact integer tag identifying an enum/variant.
func (w *Writer) WriteEnumTag(tag uint8) {
	w.WriteUint8(tag)
}

// WriteArrayLen writes the uint32 length prefix for an array; callers then
// encode each element in order.
func (w *Writer) WriteArrayLen(n int) {
	w.WriteUint32(uint32(n))
}

// Reader decodes a canonical binary encoding produced by Writer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps b for canonical decoding.
func NewReader(b []byte) *Reader {
	return &Reader{data: b}
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("canonical decode: need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// ReadBool reads a one-byte boolean.
func (r *Reader) ReadBool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v := r.data[r.pos]
	r.pos++
	if v != 0 && v != 1 {
		return false, fmt.Errorf("canonical decode: invalid bool byte 0x%02x", v)
	}
	return v == 1, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadInt32 reads a 4-byte little-endian two's-complement integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads a 4-byte little-endian unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// ReadInt64 reads an 8-byte little-endian two's-complement integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadUint64 reads an 8-byte little-endian unsigned integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// ReadFloat64 reads an IEEE-754 binary64 value.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadRawBytes reads exactly n raw bytes with no length prefix.
func (r *Reader) ReadRawBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

// ReadBytes reads a uint32-length-prefixed byte string.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return r.ReadRawBytes(int(n))
}

// ReadString reads a uint32-length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadOptionalTag reads the one-byte presence tag for an optional value.
func (r *Reader) ReadOptionalTag() (bool, error) {
	return r.ReadBool()
}

// ReadEnumTag reads a compact integer tag identifying an enum/variant.
func (r *Reader) ReadEnumTag() (uint8, error) {
	return r.ReadUint8()
}

// ReadArrayLen reads the uint32 length prefix for an array.
func (r *Reader) ReadArrayLen() (int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CanonicalEncodable is implemented by every type whose identity is
// content-addressed: its CanonicalEncode writes fields in a fixed,
// documented positional order so that re-encoding a decoded value is
// byte-identical to the original encoding.
type CanonicalEncodable interface {
	CanonicalEncode(w *Writer)
}

// EncodeCanonical runs v's canonical encoding and returns the resulting bytes.
func EncodeCanonical(v CanonicalEncodable) []byte {
	w := NewWriter()
	v.CanonicalEncode(w)
	return w.Bytes()
}
