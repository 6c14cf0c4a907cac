package nbt

import (
	"errors"
	"fmt"
)

// Decode-time errors. All of them are fatal: a stream that fails to
// decode cannot be partially trusted, so no recovery is attempted.
var (
	ErrTruncated      = errors.New("truncated input")
	ErrUnknownTag     = errors.New("unknown tag")
	ErrNegativeLength = errors.New("negative length")
	ErrDepthExceeded  = errors.New("nesting depth exceeded")
)

// Access-time errors. These arise only from accessor misuse, never from
// decoding a well-formed stream.
var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
)

func typeMismatch(want Tag, got Node) error {
	return fmt.Errorf("nbt: want %s, have %s: %w", want, got.Tag(), ErrTypeMismatch)
}

// AsCompound returns n as a compound, or ErrTypeMismatch.
func AsCompound(n Node) (*Compound, error) {
	if c, ok := n.(*Compound); ok {
		return c, nil
	}
	return nil, typeMismatch(TagCompound, n)
}

// AsList returns n as a list, or ErrTypeMismatch.
func AsList(n Node) (*List, error) {
	if l, ok := n.(*List); ok {
		return l, nil
	}
	return nil, typeMismatch(TagList, n)
}

// AsString returns the text of a string node, or ErrTypeMismatch.
func AsString(n Node) (string, error) {
	if s, ok := n.(String); ok {
		return string(s), nil
	}
	return "", typeMismatch(TagString, n)
}

// AsIntArray returns n as an int array, or ErrTypeMismatch.
func AsIntArray(n Node) ([]int32, error) {
	if a, ok := n.(IntArray); ok {
		return []int32(a), nil
	}
	return nil, typeMismatch(TagIntArray, n)
}

// IntValue widens any fixed-width integer node to int64. Non-integer
// nodes fail with ErrTypeMismatch.
func IntValue(n Node) (int64, error) {
	switch v := n.(type) {
	case Byte:
		return int64(v), nil
	case Short:
		return int64(v), nil
	case Int:
		return int64(v), nil
	case Long:
		return int64(v), nil
	}
	return 0, fmt.Errorf("nbt: want integer, have %s: %w", n.Tag(), ErrTypeMismatch)
}

// FloatValue widens either floating point node to float64. Integer nodes
// are widened too, mirroring how the format mixes numeric widths in
// practice. Other nodes fail with ErrTypeMismatch.
func FloatValue(n Node) (float64, error) {
	switch v := n.(type) {
	case Float:
		return float64(v), nil
	case Double:
		return float64(v), nil
	}
	if i, err := IntValue(n); err == nil {
		return float64(i), nil
	}
	return 0, fmt.Errorf("nbt: want number, have %s: %w", n.Tag(), ErrTypeMismatch)
}
