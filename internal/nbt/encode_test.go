package nbt

// The shipped package deliberately has no serialization API; this
// test-only encoder exists to exercise the decoder with round trips.

import (
	"encoding/binary"
	"math"
)

func encodeRoot(name string, root *Compound) []byte {
	var out []byte
	out = append(out, byte(TagCompound))
	out = appendString(out, name)
	return appendPayload(out, root)
}

func appendString(out []byte, s string) []byte {
	out = binary.BigEndian.AppendUint16(out, uint16(len(s)))
	return append(out, s...)
}

func appendPayload(out []byte, n Node) []byte {
	switch v := n.(type) {
	case Byte:
		return append(out, byte(v))
	case Short:
		return binary.BigEndian.AppendUint16(out, uint16(v))
	case Int:
		return binary.BigEndian.AppendUint32(out, uint32(v))
	case Long:
		return binary.BigEndian.AppendUint64(out, uint64(v))
	case Float:
		return binary.BigEndian.AppendUint32(out, math.Float32bits(float32(v)))
	case Double:
		return binary.BigEndian.AppendUint64(out, math.Float64bits(float64(v)))
	case String:
		return appendString(out, string(v))
	case ByteArray:
		out = binary.BigEndian.AppendUint32(out, uint32(len(v)))
		return append(out, v...)
	case IntArray:
		out = binary.BigEndian.AppendUint32(out, uint32(len(v)))
		for _, e := range v {
			out = binary.BigEndian.AppendUint32(out, uint32(e))
		}
		return out
	case LongArray:
		out = binary.BigEndian.AppendUint32(out, uint32(len(v)))
		for _, e := range v {
			out = binary.BigEndian.AppendUint64(out, uint64(e))
		}
		return out
	case *List:
		out = append(out, byte(v.Elem))
		out = binary.BigEndian.AppendUint32(out, uint32(len(v.Items)))
		for _, e := range v.Items {
			out = appendPayload(out, e)
		}
		return out
	case *Compound:
		for _, name := range v.Names() {
			e, _ := v.Get(name)
			out = append(out, byte(e.Tag()))
			out = appendString(out, name)
			out = appendPayload(out, e)
		}
		return append(out, byte(TagEnd))
	}
	panic("unreachable")
}

// equalNode compares two trees structurally, including list element tags
// and compound key order.
func equalNode(a, b Node) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch av := a.(type) {
	case *List:
		bv := b.(*List)
		if av.Elem != bv.Elem || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !equalNode(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		bv := b.(*Compound)
		if av.Len() != bv.Len() {
			return false
		}
		for i, name := range av.Names() {
			if bv.Names()[i] != name {
				return false
			}
			ae, _ := av.Get(name)
			be, _ := bv.Get(name)
			if !equalNode(ae, be) {
				return false
			}
		}
		return true
	case ByteArray:
		bv := b.(ByteArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case IntArray:
		bv := b.(IntArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case LongArray:
		bv := b.(LongArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
