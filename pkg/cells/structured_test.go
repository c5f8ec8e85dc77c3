package cells_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayforge/cellgrid/pkg/cells"
	"github.com/arrayforge/cellgrid/pkg/errors"
)

func rowMajorCells(t *testing.T, n int) *cells.Cells {
	t.Helper()
	values := make([]uint64, n)
	for i := range values {
		values[i] = uint64(i)
	}
	return mustNew(t, map[string]cells.FieldData{
		"v": cells.NewUint64Field(values),
	})
}

func TestStructuredDimensionMismatch(t *testing.T) {
	_, err := cells.NewStructured([]int{2, 2}, rowMajorCells(t, 6))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestStructuredShape(t *testing.T) {
	s, err := cells.NewStructured([]int{2, 3}, rowMajorCells(t, 6))
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumDimensions())
	assert.Equal(t, 2, s.DimensionLen(0))
	assert.Equal(t, 3, s.DimensionLen(1))
	assert.Equal(t, 6, s.IntoInner().Len())
}

func TestSliceLiteral2D(t *testing.T) {
	// dimensions [2,3], values 0..5 in row-major order
	s, err := cells.NewStructured([]int{2, 3}, rowMajorCells(t, 6))
	require.NoError(t, err)

	sliced, err := s.Slice([]cells.Range{{Start: 0, End: 2}, {Start: 1, End: 3}})
	require.NoError(t, err)

	// flat indices {1,2,4,5} selected, in that order
	v, ok := cells.FieldValues[uint64](sliced.IntoInner().Fields()["v"])
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2, 4, 5}, v)
}

func TestSlice1DMatchesFieldSlice(t *testing.T) {
	c := rowMajorCells(t, 10)
	s, err := cells.NewStructured([]int{10}, c)
	require.NoError(t, err)

	sliced, err := s.Slice([]cells.Range{{Start: 3, End: 7}})
	require.NoError(t, err)

	expect := c.Fields()["v"].Slice(3, 4)
	assert.True(t, sliced.IntoInner().Fields()["v"].BitsEq(expect))
}

func TestSlice3D(t *testing.T) {
	s, err := cells.NewStructured([]int{2, 2, 3}, rowMajorCells(t, 12))
	require.NoError(t, err)

	sliced, err := s.Slice([]cells.Range{
		{Start: 1, End: 2},
		{Start: 0, End: 2},
		{Start: 2, End: 3},
	})
	require.NoError(t, err)

	// coordinates (1,0,2) and (1,1,2): flat 6+0+2=8 and 6+3+2=11
	v, ok := cells.FieldValues[uint64](sliced.IntoInner().Fields()["v"])
	require.True(t, ok)
	assert.Equal(t, []uint64{8, 11}, v)
}

func TestSliceEmptyRange(t *testing.T) {
	s, err := cells.NewStructured([]int{2, 3}, rowMajorCells(t, 6))
	require.NoError(t, err)

	sliced, err := s.Slice([]cells.Range{{Start: 0, End: 2}, {Start: 2, End: 2}})
	require.NoError(t, err)
	assert.Zero(t, sliced.IntoInner().Len())
}

func TestSliceRangeCountMismatch(t *testing.T) {
	s, err := cells.NewStructured([]int{2, 3}, rowMajorCells(t, 6))
	require.NoError(t, err)

	_, err = s.Slice([]cells.Range{{Start: 0, End: 1}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestSliceRetainsDimensions(t *testing.T) {
	s, err := cells.NewStructured([]int{2, 3}, rowMajorCells(t, 6))
	require.NoError(t, err)

	sliced, err := s.Slice([]cells.Range{{Start: 0, End: 1}, {Start: 0, End: 1}})
	require.NoError(t, err)

	// the slice keeps the original extents even though the row count
	// shrank; shape and data are intentionally out of sync here
	assert.Equal(t, 2, sliced.DimensionLen(0))
	assert.Equal(t, 3, sliced.DimensionLen(1))
	assert.Equal(t, 1, sliced.IntoInner().Len())
}
