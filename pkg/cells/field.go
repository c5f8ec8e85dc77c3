package cells

import (
	"github.com/arrayforge/cellgrid/pkg/bitset"
	"github.com/arrayforge/cellgrid/pkg/errors"
	"github.com/arrayforge/cellgrid/pkg/physical"
)

// FieldData is a homogeneous column of values of one physical type.
// It is a closed union: the only implementations are the typed
// constructors in this package. All transforming operations return
// deep, non-aliased copies; in-place operations require exclusive
// access to the receiver.
type FieldData interface {
	// Type returns the physical type tag of the column.
	Type() physical.Type
	// Len returns the number of rows in the column.
	Len() int
	// IsEmpty reports whether the column has no rows.
	IsEmpty() bool
	// Slice returns a new owned column holding rows [start, start+length).
	Slice(start, length int) FieldData
	// Truncate drops rows at or beyond length, in place.
	// It is a no-op when length >= Len.
	Truncate(length int)
	// Extend appends other's rows after this column's rows.
	// It fails with a type mismatch if other is a different variant.
	Extend(other FieldData) error
	// Filter returns a new owned column keeping only rows whose bit is
	// set, in original relative order.
	Filter(set *bitset.Bitset) FieldData
	// BitsEq reports exact-bit equality of two columns: same variant,
	// same length, and every row bits-equal.
	BitsEq(other FieldData) bool
	// Clone returns a deep copy.
	Clone() FieldData

	// cmpRows bit-compares rows i and j of this column.
	cmpRows(i, j int) int
	// rangeEq reports element-wise bit equality of this column's rows
	// [aStart, aStart+n) against other's rows [bStart, bStart+n).
	// Columns of different variants are never equal.
	rangeEq(other FieldData, aStart, bStart, n int) bool
	// applyPermutation reorders the column so that new row i holds the
	// value previously at row perm[i]. The permutation is applied
	// against a scratch copy so the column is never observed half-moved.
	applyPermutation(perm []int)
	// overwritePrefix copies other's rows over the first other.Len()
	// rows of this column, which must be at least as long.
	overwritePrefix(other FieldData) error
}

// column is the single generic implementation behind FieldData.
// cmp is the per-type exact-bit comparator; clone deep-copies one
// value and is nil for types without interior pointers.
type column[T any] struct {
	typ    physical.Type
	cmp    func(a, b T) int
	clone  func(T) T
	values []T
}

func newColumn[T any](typ physical.Type, cmp func(a, b T) int, clone func(T) T, values []T) *column[T] {
	c := &column[T]{typ: typ, cmp: cmp, clone: clone}
	c.values = c.copyValues(values)
	return c
}

func (c *column[T]) copyValues(src []T) []T {
	out := make([]T, len(src))
	if c.clone == nil {
		copy(out, src)
	} else {
		for i, v := range src {
			out[i] = c.clone(v)
		}
	}
	return out
}

func (c *column[T]) Type() physical.Type { return c.typ }
func (c *column[T]) Len() int            { return len(c.values) }
func (c *column[T]) IsEmpty() bool       { return len(c.values) == 0 }

func (c *column[T]) Slice(start, length int) FieldData {
	return &column[T]{
		typ:    c.typ,
		cmp:    c.cmp,
		clone:  c.clone,
		values: c.copyValues(c.values[start : start+length]),
	}
}

func (c *column[T]) Truncate(length int) {
	if length >= len(c.values) {
		return
	}
	if length < 0 {
		length = 0
	}
	c.values = c.values[:length]
}

func (c *column[T]) Extend(other FieldData) error {
	o, ok := other.(*column[T])
	if !ok || o.typ != c.typ {
		return errors.New(errors.ErrorTypeTypeMismatch, "cannot extend column with a different physical type").
			WithDetail("type", c.typ.String()).
			WithDetail("other_type", other.Type().String())
	}
	c.values = append(c.values, c.copyValues(o.values)...)
	return nil
}

func (c *column[T]) Filter(set *bitset.Bitset) FieldData {
	kept := make([]T, 0, set.Count())
	for i := range c.values {
		if set.Test(i) {
			kept = append(kept, c.values[i])
		}
	}
	return &column[T]{
		typ:    c.typ,
		cmp:    c.cmp,
		clone:  c.clone,
		values: c.copyValues(kept),
	}
}

func (c *column[T]) BitsEq(other FieldData) bool {
	o, ok := other.(*column[T])
	if !ok || o.typ != c.typ || len(o.values) != len(c.values) {
		return false
	}
	for i := range c.values {
		if c.cmp(c.values[i], o.values[i]) != 0 {
			return false
		}
	}
	return true
}

func (c *column[T]) Clone() FieldData {
	return &column[T]{
		typ:    c.typ,
		cmp:    c.cmp,
		clone:  c.clone,
		values: c.copyValues(c.values),
	}
}

func (c *column[T]) cmpRows(i, j int) int {
	return c.cmp(c.values[i], c.values[j])
}

func (c *column[T]) rangeEq(other FieldData, aStart, bStart, n int) bool {
	o, ok := other.(*column[T])
	if !ok || o.typ != c.typ {
		return false
	}
	for i := 0; i < n; i++ {
		if c.cmp(c.values[aStart+i], o.values[bStart+i]) != 0 {
			return false
		}
	}
	return true
}

func (c *column[T]) applyPermutation(perm []int) {
	scratch := make([]T, len(c.values))
	for i, from := range perm {
		scratch[i] = c.values[from]
	}
	c.values = scratch
}

func (c *column[T]) overwritePrefix(other FieldData) error {
	o, ok := other.(*column[T])
	if !ok || o.typ != c.typ {
		return errors.New(errors.ErrorTypeTypeMismatch, "cannot copy rows from a column of a different physical type").
			WithDetail("type", c.typ.String()).
			WithDetail("other_type", other.Type().String())
	}
	for i, v := range o.values {
		if c.clone == nil {
			c.values[i] = v
		} else {
			c.values[i] = c.clone(v)
		}
	}
	return nil
}

func cloneBytes(v []byte) []byte {
	return append([]byte(nil), v...)
}

// NewUint8Field creates a uint8 column from a copy of values.
func NewUint8Field(values []uint8) FieldData {
	return newColumn(physical.TypeUint8, physical.CmpOrdered[uint8], nil, values)
}

// NewUint16Field creates a uint16 column from a copy of values.
func NewUint16Field(values []uint16) FieldData {
	return newColumn(physical.TypeUint16, physical.CmpOrdered[uint16], nil, values)
}

// NewUint32Field creates a uint32 column from a copy of values.
func NewUint32Field(values []uint32) FieldData {
	return newColumn(physical.TypeUint32, physical.CmpOrdered[uint32], nil, values)
}

// NewUint64Field creates a uint64 column from a copy of values.
func NewUint64Field(values []uint64) FieldData {
	return newColumn(physical.TypeUint64, physical.CmpOrdered[uint64], nil, values)
}

// NewInt8Field creates an int8 column from a copy of values.
func NewInt8Field(values []int8) FieldData {
	return newColumn(physical.TypeInt8, physical.CmpOrdered[int8], nil, values)
}

// NewInt16Field creates an int16 column from a copy of values.
func NewInt16Field(values []int16) FieldData {
	return newColumn(physical.TypeInt16, physical.CmpOrdered[int16], nil, values)
}

// NewInt32Field creates an int32 column from a copy of values.
func NewInt32Field(values []int32) FieldData {
	return newColumn(physical.TypeInt32, physical.CmpOrdered[int32], nil, values)
}

// NewInt64Field creates an int64 column from a copy of values.
func NewInt64Field(values []int64) FieldData {
	return newColumn(physical.TypeInt64, physical.CmpOrdered[int64], nil, values)
}

// NewFloat32Field creates a float32 column from a copy of values.
// Comparison is on raw IEEE-754 bit patterns, not float semantics.
func NewFloat32Field(values []float32) FieldData {
	return newColumn(physical.TypeFloat32, physical.CmpFloat32Bits, nil, values)
}

// NewFloat64Field creates a float64 column from a copy of values.
// Comparison is on raw IEEE-754 bit patterns, not float semantics.
func NewFloat64Field(values []float64) FieldData {
	return newColumn(physical.TypeFloat64, physical.CmpFloat64Bits, nil, values)
}

// NewBytesField creates a variable-length bytes column from a deep
// copy of values.
func NewBytesField(values [][]byte) FieldData {
	return newColumn(physical.TypeBytes, physical.CmpBytes, cloneBytes, values)
}

// NewStringField creates a string column from a copy of values.
func NewStringField(values []string) FieldData {
	return newColumn(physical.TypeString, physical.CmpOrdered[string], nil, values)
}

// FieldValues extracts a copy of the column's values at their concrete
// type. It returns false when T does not match the column's variant.
func FieldValues[T any](f FieldData) ([]T, bool) {
	c, ok := f.(*column[T])
	if !ok {
		return nil, false
	}
	return c.copyValues(c.values), true
}
