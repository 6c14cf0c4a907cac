package nbt

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

// sampleTree builds a tree that uses every tag type at least once.
func sampleTree() *Compound {
	inner := NewCompound()
	inner.Set("id", String("minecraft:flint"))
	inner.Set("Count", Byte(5))

	root := NewCompound()
	root.Set("name", String("test"))
	root.Set("b", Byte(-3))
	root.Set("s", Short(1024))
	root.Set("i", Int(-70000))
	root.Set("l", Long(1<<40))
	root.Set("f", Float(1.5))
	root.Set("d", Double(-2.25))
	root.Set("ba", ByteArray{0, 1, 255})
	root.Set("ia", IntArray{-1, 0, 7})
	root.Set("la", LongArray{1 << 33, -9})
	root.Set("empty", &List{Elem: TagEnd})
	root.Set("Items", &List{Elem: TagCompound, Items: []Node{inner}})
	return root
}

func TestDecode_RoundTrip(t *testing.T) {
	want := sampleTree()
	data := encodeRoot("root", want)

	name, got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if name != "root" {
		t.Errorf("root name = %q, want %q", name, "root")
	}
	if !equalNode(want, got) {
		t.Errorf("round trip mismatch:\nwant %s\ngot  %s", Stringify(want), Stringify(got))
	}
}

func TestDecode_TruncationAtEveryBoundary(t *testing.T) {
	data := encodeRoot("", sampleTree())
	for n := 0; n < len(data); n++ {
		_, _, err := Decode(data[:n])
		if err == nil {
			t.Fatalf("decode of %d/%d bytes succeeded", n, len(data))
		}
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("decode of %d/%d bytes: got %v, want ErrTruncated", n, len(data), err)
		}
	}
}

func TestDecode_NeverTypeMismatch(t *testing.T) {
	// Access errors must come from accessor misuse only; a clean decode
	// may not surface them.
	data := encodeRoot("", sampleTree())
	_, _, err := Decode(data)
	if errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("decode returned access-layer error: %v", err)
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	data := []byte{byte(TagCompound), 0, 0, 0x7f}
	_, _, err := Decode(data)
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("got %v, want ErrUnknownTag", err)
	}
	if !strings.Contains(err.Error(), "offset") {
		t.Errorf("error %q does not name an offset", err)
	}
}

func TestDecode_RootNotCompound(t *testing.T) {
	data := []byte{byte(TagByte), 0, 0, 1}
	_, _, err := Decode(data)
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("got %v, want ErrUnknownTag", err)
	}
}

func TestDecode_NegativeLength(t *testing.T) {
	// Compound{ "a": List[Byte] } with count -1.
	var data []byte
	data = append(data, byte(TagCompound), 0, 0)
	data = append(data, byte(TagList), 0, 1, 'a', byte(TagByte))
	data = binary.BigEndian.AppendUint32(data, 0xFFFFFFFF)
	data = append(data, byte(TagEnd))

	_, _, err := Decode(data)
	if !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("got %v, want ErrNegativeLength", err)
	}
}

func TestDecode_ListOfEndWithCount(t *testing.T) {
	var data []byte
	data = append(data, byte(TagCompound), 0, 0)
	data = append(data, byte(TagList), 0, 1, 'a', byte(TagEnd))
	data = binary.BigEndian.AppendUint32(data, 2)
	data = append(data, byte(TagEnd))

	_, _, err := Decode(data)
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("got %v, want ErrUnknownTag", err)
	}
}

func TestDecode_EmptyList(t *testing.T) {
	root := NewCompound()
	root.Set("empty", &List{Elem: TagEnd})
	_, got, err := Decode(encodeRoot("", root))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, ok := got.Get("empty")
	if !ok {
		t.Fatal("empty list missing")
	}
	l, err := AsList(n)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 0 || l.Elem != TagEnd {
		t.Errorf("empty list = %v elem %s", l.Len(), l.Elem)
	}
}

func TestDecode_DepthLimit(t *testing.T) {
	// maxDepth+2 nested compounds, each holding one child named "c".
	var data []byte
	data = append(data, byte(TagCompound), 0, 0)
	for i := 0; i < maxDepth+2; i++ {
		data = append(data, byte(TagCompound), 0, 1, 'c')
	}
	_, _, err := Decode(data)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("got %v, want ErrDepthExceeded", err)
	}
}

func TestAccessors_TypeMismatch(t *testing.T) {
	if _, err := AsCompound(String("x")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsCompound on string: %v", err)
	}
	if _, err := AsList(Int(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsList on int: %v", err)
	}
	if _, err := AsString(NewCompound()); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsString on compound: %v", err)
	}
	if _, err := IntValue(Float(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("IntValue on float: %v", err)
	}
}

func TestAccessors_IntWidening(t *testing.T) {
	for _, n := range []Node{Byte(7), Short(7), Int(7), Long(7)} {
		v, err := IntValue(n)
		if err != nil || v != 7 {
			t.Errorf("IntValue(%s) = %d, %v", n.Tag(), v, err)
		}
	}
}

func TestList_At(t *testing.T) {
	l := &List{Elem: TagInt, Items: []Node{Int(1), Int(2)}}
	if v, err := l.At(1); err != nil || v.(Int) != 2 {
		t.Errorf("At(1) = %v, %v", v, err)
	}
	if _, err := l.At(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(2): %v", err)
	}
	if _, err := l.At(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(-1): %v", err)
	}
}

func TestCompound_GetMissing(t *testing.T) {
	c := NewCompound()
	c.Set("a", Int(1))
	if _, ok := c.Get("nope"); ok {
		t.Error("missing key reported present")
	}
}

func TestCompound_OrderPreserved(t *testing.T) {
	c := NewCompound()
	c.Set("z", Int(1))
	c.Set("a", Int(2))
	c.Set("z", Int(3)) // replace keeps position
	names := c.Names()
	if len(names) != 2 || names[0] != "z" || names[1] != "a" {
		t.Errorf("names = %v", names)
	}
	if v, _ := c.Get("z"); v.(Int) != 3 {
		t.Errorf("z = %v", v)
	}
}

func TestStringify(t *testing.T) {
	item := NewCompound()
	item.Set("id", String("minecraft:flint"))
	item.Set("Count", Byte(5))
	root := NewCompound()
	root.Set("Items", &List{Elem: TagCompound, Items: []Node{item}})
	root.Set("Float420", Float(420))

	got := Stringify(root)
	want := `{Items:[{id:"minecraft:flint",Count:5b}],Float420:420f}`
	if got != want {
		t.Errorf("Stringify = %s, want %s", got, want)
	}
}

func TestStringify_ArraysAndQuoting(t *testing.T) {
	c := NewCompound()
	c.Set("ia", IntArray{1, -2})
	c.Set("weird key", String("v"))
	got := Stringify(c)
	want := `{ia:[I;1,-2],"weird key":"v"}`
	if got != want {
		t.Errorf("Stringify = %s, want %s", got, want)
	}
}
