package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// maxDepth caps compound/list nesting. Well-formed save data stays in the
// tens; the cap only guards against pathological streams blowing the
// goroutine stack.
const maxDepth = 512

// Decode reads one complete tag tree from data. The root must be a named
// compound; its name (usually empty) and the decoded tree are returned.
// Every multi-byte field is big-endian. Errors report the byte offset at
// which decoding failed and wrap one of the package sentinel errors.
func Decode(data []byte) (name string, root *Compound, err error) {
	c := &cursor{data: data}

	t, err := c.u8()
	if err != nil {
		return "", nil, err
	}
	if Tag(t) != TagCompound {
		return "", nil, fmt.Errorf("nbt: root is %s, not %s at offset 0: %w", Tag(t), TagCompound, ErrUnknownTag)
	}
	name, err = c.str()
	if err != nil {
		return "", nil, err
	}
	node, err := c.payload(TagCompound, 0)
	if err != nil {
		return "", nil, err
	}
	root = node.(*Compound)
	return name, root, nil
}

// cursor is an explicit position over the raw stream. Every read checks
// the remaining length first so truncation always surfaces as
// ErrTruncated, never as a silent wrong answer.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) need(n int) error {
	if n < 0 || len(c.data)-c.off < n {
		return fmt.Errorf("nbt: need %d bytes at offset %d, have %d: %w",
			n, c.off, len(c.data)-c.off, ErrTruncated)
	}
	return nil
}

func (c *cursor) u8() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

func (c *cursor) u16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) i32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(c.data[c.off:]))
	c.off += 4
	return v, nil
}

func (c *cursor) i64() (int64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(c.data[c.off:]))
	c.off += 8
	return v, nil
}

func (c *cursor) take(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// str reads a 2-byte unsigned length followed by that many bytes of
// modified UTF-8. The bytes are kept verbatim; for the ASCII-dominated
// key and id strings in save data this matches standard UTF-8.
func (c *cursor) str() (string, error) {
	n, err := c.u16()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// count reads a 4-byte signed element count and rejects negatives.
func (c *cursor) count() (int, error) {
	at := c.off
	n, err := c.i32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("nbt: count %d at offset %d: %w", n, at, ErrNegativeLength)
	}
	return int(n), nil
}

// payload decodes the body of one value of type t. Names are read by the
// caller (compound entries and the root carry names, list elements do
// not).
func (c *cursor) payload(t Tag, depth int) (Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nbt: depth %d at offset %d: %w", depth, c.off, ErrDepthExceeded)
	}

	switch t {
	case TagByte:
		b, err := c.u8()
		return Byte(b), err
	case TagShort:
		v, err := c.u16()
		return Short(v), err
	case TagInt:
		v, err := c.i32()
		return Int(v), err
	case TagLong:
		v, err := c.i64()
		return Long(v), err
	case TagFloat:
		v, err := c.i32()
		return Float(math.Float32frombits(uint32(v))), err
	case TagDouble:
		v, err := c.i64()
		return Double(math.Float64frombits(uint64(v))), err
	case TagString:
		s, err := c.str()
		return String(s), err

	case TagByteArray:
		n, err := c.count()
		if err != nil {
			return nil, err
		}
		b, err := c.take(n)
		if err != nil {
			return nil, err
		}
		out := make(ByteArray, n)
		copy(out, b)
		return out, nil

	case TagIntArray:
		n, err := c.count()
		if err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			v, err := c.i32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case TagLongArray:
		n, err := c.count()
		if err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			v, err := c.i64()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case TagList:
		return c.list(depth)
	case TagCompound:
		return c.compound(depth)
	}

	return nil, fmt.Errorf("nbt: tag 0x%02x at offset %d: %w", byte(t), c.off-1, ErrUnknownTag)
}

func (c *cursor) list(depth int) (Node, error) {
	at := c.off
	et, err := c.u8()
	if err != nil {
		return nil, err
	}
	elem := Tag(et)
	if elem > TagLongArray {
		return nil, fmt.Errorf("nbt: list element tag 0x%02x at offset %d: %w", et, at, ErrUnknownTag)
	}
	n, err := c.count()
	if err != nil {
		return nil, err
	}
	// An End element carries no payload, so a nonzero count can never be
	// satisfied.
	if elem == TagEnd && n > 0 {
		return nil, fmt.Errorf("nbt: list of %s with count %d at offset %d: %w", TagEnd, n, at, ErrUnknownTag)
	}

	l := &List{Elem: elem, Items: make([]Node, 0, n)}
	for i := 0; i < n; i++ {
		v, err := c.payload(elem, depth+1)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, v)
	}
	return l, nil
}

func (c *cursor) compound(depth int) (Node, error) {
	out := NewCompound()
	for {
		t, err := c.u8()
		if err != nil {
			return nil, err
		}
		tag := Tag(t)
		if tag == TagEnd {
			return out, nil
		}
		if tag > TagLongArray {
			return nil, fmt.Errorf("nbt: tag 0x%02x at offset %d: %w", t, c.off-1, ErrUnknownTag)
		}
		name, err := c.str()
		if err != nil {
			return nil, err
		}
		v, err := c.payload(tag, depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
}
