// Package physical defines the closed set of physical value types the
// cell-data model supports, together with exact-bit comparison
// primitives for each of them.
//
// Bit comparison is not value comparison. Two floats are bits-equal
// only when their IEEE-754 representations match: a NaN is bits-equal
// to an identical NaN payload, while +0.0 and -0.0 are distinct.
// Ordering for floats is the ordering of the raw bit patterns
// reinterpreted as unsigned integers, which is total and deterministic
// where IEEE comparison is not.
package physical

import (
	"bytes"
	"cmp"
	"math"

	"github.com/arrayforge/cellgrid/pkg/errors"
)

// Type tags a physical value type.
type Type int

const (
	TypeUint8 Type = iota
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeBytes
	TypeString
)

var typeNames = map[Type]string{
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint64:  "uint64",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeBytes:   "bytes",
	TypeString:  "string",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseType resolves a type name as produced by Type.String.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrorTypeNotFound, "unknown physical type").
		WithDetail("type", name)
}

// CmpOrdered compares two values of any ordered type.
// For the integer physical types this is also the bit ordering.
func CmpOrdered[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}

// CmpFloat32Bits orders float32 values by raw IEEE-754 bit pattern.
func CmpFloat32Bits(a, b float32) int {
	return cmp.Compare(math.Float32bits(a), math.Float32bits(b))
}

// CmpFloat64Bits orders float64 values by raw IEEE-754 bit pattern.
func CmpFloat64Bits(a, b float64) int {
	return cmp.Compare(math.Float64bits(a), math.Float64bits(b))
}

// CmpBytes orders variable-length byte values lexicographically.
func CmpBytes(a, b []byte) int {
	return bytes.Compare(a, b)
}
