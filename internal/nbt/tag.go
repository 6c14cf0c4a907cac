// Package nbt implements the named binary tag tree format: a typed node
// model, a big-endian binary decoder, and a flat textual rendering.
package nbt

import "fmt"

// Tag identifies the type of a node in the binary stream.
type Tag byte

const (
	TagEnd Tag = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var tagNames = [...]string{
	"TAG_End", "TAG_Byte", "TAG_Short", "TAG_Int", "TAG_Long",
	"TAG_Float", "TAG_Double", "TAG_Byte_Array", "TAG_String",
	"TAG_List", "TAG_Compound", "TAG_Int_Array", "TAG_Long_Array",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("TAG_0x%02x", byte(t))
}

// Node is one decoded value. Concrete types are the scalar kinds below
// plus *List and *Compound. A node exclusively owns its children; the
// decoder never produces shared subtrees or cycles.
type Node interface {
	Tag() Tag
}

type (
	// Byte is a signed 8-bit integer node.
	Byte int8
	// Short is a signed 16-bit integer node.
	Short int16
	// Int is a signed 32-bit integer node.
	Int int32
	// Long is a signed 64-bit integer node.
	Long int64
	// Float is a 32-bit floating point node.
	Float float32
	// Double is a 64-bit floating point node.
	Double float64
	// String is a length-prefixed text node.
	String string
	// ByteArray is an ordered sequence of raw bytes.
	ByteArray []byte
	// IntArray is an ordered sequence of signed 32-bit integers.
	IntArray []int32
	// LongArray is an ordered sequence of signed 64-bit integers.
	LongArray []int64
)

func (Byte) Tag() Tag      { return TagByte }
func (Short) Tag() Tag     { return TagShort }
func (Int) Tag() Tag       { return TagInt }
func (Long) Tag() Tag      { return TagLong }
func (Float) Tag() Tag     { return TagFloat }
func (Double) Tag() Tag    { return TagDouble }
func (String) Tag() Tag    { return TagString }
func (ByteArray) Tag() Tag { return TagByteArray }
func (IntArray) Tag() Tag  { return TagIntArray }
func (LongArray) Tag() Tag { return TagLongArray }

// List is an ordered sequence of nodes that all share one declared
// element tag. A list may be empty, in which case Elem is TagEnd.
type List struct {
	Elem  Tag
	Items []Node
}

func (*List) Tag() Tag { return TagList }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.Items) }

// At returns the element at index i, or ErrIndexOutOfRange.
func (l *List) At(i int) (Node, error) {
	if i < 0 || i >= len(l.Items) {
		return nil, fmt.Errorf("nbt: list index %d of %d: %w", i, len(l.Items), ErrIndexOutOfRange)
	}
	return l.Items[i], nil
}

// Compound maps unique names to child nodes. Lookup order is irrelevant
// for queries, but insertion order is preserved so that re-display and
// the textual rendering stay deterministic.
type Compound struct {
	names   []string
	entries map[string]Node
}

func (*Compound) Tag() Tag { return TagCompound }

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{entries: make(map[string]Node)}
}

// Set inserts or replaces the child stored under name. A replaced name
// keeps its original position.
func (c *Compound) Set(name string, v Node) {
	if _, ok := c.entries[name]; !ok {
		c.names = append(c.names, name)
	}
	c.entries[name] = v
}

// Get returns the child stored under name. A missing name is reported
// through the boolean, not an error.
func (c *Compound) Get(name string) (Node, bool) {
	v, ok := c.entries[name]
	return v, ok
}

// Has reports whether name is present.
func (c *Compound) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Names returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (c *Compound) Names() []string { return c.names }

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.names) }
