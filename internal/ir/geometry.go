package ir

// Geometry is an opaque polyline blob. The truth substrate never
// interprets boundary geometry — it stores and hashes whatever bytes a
// caller supplies and returns them unchanged on read. Interpretation
// (projection, rendering, intersection tests) lives outside this module.
type Geometry []byte

// CanonicalEncode writes g as a length-prefixed byte string.
func (g Geometry) CanonicalEncode(w *Writer) {
	w.WriteBytes(g)
}

// DecodeGeometry reads a length-prefixed byte string produced by CanonicalEncode.
func DecodeGeometry(r *Reader) (Geometry, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return Geometry(b), nil
}

// Point is a 3-component coordinate, reused for junction locations (2D,
// Z left zero) and Euler poles (3D unit vector) — the substrate treats
// both as opaque coordinates and never normalizes or projects them.
type Point struct {
	X, Y, Z float64
}

// CanonicalEncode writes the components in X, Y, Z order.
func (p Point) CanonicalEncode(w *Writer) {
	w.WriteFloat64(p.X)
	w.WriteFloat64(p.Y)
	w.WriteFloat64(p.Z)
}

// DecodePoint reads a Point in CanonicalEncode's field order.
func DecodePoint(r *Reader) (Point, error) {
	var p Point
	var err error
	if p.X, err = r.ReadFloat64(); err != nil {
		return p, err
	}
	if p.Y, err = r.ReadFloat64(); err != nil {
		return p, err
	}
	if p.Z, err = r.ReadFloat64(); err != nil {
		return p, err
	}
	return p, nil
}
