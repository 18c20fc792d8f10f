package nodes

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"reflect"
)

// shapeDomain separates statement fingerprints from any other SHA-256 use.
// The version suffix allows the encoding to change later.
const shapeDomain = "selekt/select-shape/v1"

// Fingerprint identifies the shape of a statement: which slot and node types
// it is built from, their operators, column references and child counts.
// Bound values are not part of the shape, so two statements that differ
// only in the values they bind share a fingerprint and a prepared statement.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Shaper is implemented by nodes that carry shape beyond their Go type.
type Shaper interface {
	WriteShape(w *ShapeWriter)
}

// ShapeWriter accumulates a shape encoding. Every write is length- or
// width-prefixed so adjacent fields cannot run together.
type ShapeWriter struct {
	h hash.Hash
}

func (w *ShapeWriter) String(s string) {
	w.Int(len(s))
	w.h.Write([]byte(s))
}

func (w *ShapeWriter) Int(n int) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	w.h.Write(b[:])
}

func (w *ShapeWriter) Bool(v bool) {
	if v {
		w.h.Write([]byte{1})
	} else {
		w.h.Write([]byte{0})
	}
}

// Node writes v's type followed by its own shape, if it has one.
func (w *ShapeWriter) Node(v any) {
	if v == nil {
		w.String("<nil>")
		return
	}
	w.String(typeName(reflect.TypeOf(v)))
	if s, ok := v.(Shaper); ok {
		s.WriteShape(w)
	}
	w.h.Write([]byte{0xff})
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + typeName(t.Elem())
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// ShapeOf computes the fingerprint of any node.
// Format: SHA256(domain + 0x00 + shape encoding).
func ShapeOf(v any) Fingerprint {
	h := sha256.New()
	h.Write([]byte(shapeDomain))
	h.Write([]byte{0x00})
	(&ShapeWriter{h: h}).Node(v)
	var f Fingerprint
	copy(f[:], h.Sum(nil))
	return f
}
