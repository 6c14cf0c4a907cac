package nbt

import (
	"strconv"
	"strings"
)

// Stringify renders a node as flat SNBT-style text. The rendering is
// deterministic (compound entries appear in insertion order) so that
// substring queries over it behave the same from run to run.
func Stringify(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case Byte:
		b.WriteString(strconv.FormatInt(int64(v), 10))
		b.WriteByte('b')
	case Short:
		b.WriteString(strconv.FormatInt(int64(v), 10))
		b.WriteByte('s')
	case Int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case Long:
		b.WriteString(strconv.FormatInt(int64(v), 10))
		b.WriteByte('L')
	case Float:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		b.WriteByte('f')
	case Double:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
		b.WriteByte('d')
	case String:
		b.WriteString(strconv.Quote(string(v)))
	case ByteArray:
		b.WriteString("[B;")
		for i, e := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(int8(e)), 10))
			b.WriteByte('b')
		}
		b.WriteByte(']')
	case IntArray:
		b.WriteString("[I;")
		for i, e := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(e), 10))
		}
		b.WriteByte(']')
	case LongArray:
		b.WriteString("[L;")
		for i, e := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(e, 10))
			b.WriteByte('L')
		}
		b.WriteByte(']')
	case *List:
		b.WriteByte('[')
		for i, e := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, e)
		}
		b.WriteByte(']')
	case *Compound:
		b.WriteByte('{')
		for i, name := range v.Names() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteKey(name))
			b.WriteByte(':')
			e, _ := v.Get(name)
			writeNode(b, e)
		}
		b.WriteByte('}')
	}
}

// quoteKey leaves bare-word keys unquoted, matching how the text form of
// the format is usually written.
func quoteKey(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.', r == '+':
		default:
			return strconv.Quote(s)
		}
	}
	return s
}
