package cells

import (
	"github.com/arrayforge/cellgrid/pkg/bitset"
	"github.com/arrayforge/cellgrid/pkg/errors"
)

// Range is a half-open interval [Start, End) of coordinates along one
// dimension.
type Range struct {
	Start int
	End   int
}

// Len returns the number of coordinates in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty reports whether the range selects no coordinates.
func (r Range) IsEmpty() bool { return r.End <= r.Start }

// StructuredCells wraps a Cells with an ordered list of dimension
// extents, giving the flat rows an N-dimensional shape. Rows are laid
// out in row-major order: the last dimension varies fastest.
type StructuredCells struct {
	dimensions []int
	cells      *Cells
}

// NewStructured wraps cells in the given shape. It fails with an
// invariant violation unless the product of the dimensions equals the
// row count.
func NewStructured(dimensions []int, c *Cells) (*StructuredCells, error) {
	expect := 1
	for _, d := range dimensions {
		expect *= d
	}
	if expect != c.Len() {
		return nil, errors.New(errors.ErrorTypeInvariant, "dimension product does not match cell count").
			WithDetail("dimensions", dimensions).
			WithDetail("cells", c.Len())
	}
	return &StructuredCells{dimensions: dimensions, cells: c}, nil
}

// NumDimensions returns the number of axes.
func (s *StructuredCells) NumDimensions() int { return len(s.dimensions) }

// DimensionLen returns the extent of dimension d.
func (s *StructuredCells) DimensionLen(d int) int { return s.dimensions[d] }

// IntoInner unwraps to the underlying Cells, discarding shape.
func (s *StructuredCells) IntoInner() *Cells { return s.cells }

// coordCursor enumerates the flat row indices of the cartesian product
// of per-dimension ranges, in row-major order (last dimension is the
// innermost axis).
type coordCursor struct {
	dimensions []int
	ranges     []Range
	cursors    []int
	done       bool
}

func newCoordCursor(dimensions []int, ranges []Range) *coordCursor {
	for _, r := range ranges {
		if r.IsEmpty() {
			return &coordCursor{dimensions: dimensions, ranges: ranges, done: true}
		}
	}
	cursors := make([]int, len(ranges))
	for i, r := range ranges {
		cursors[i] = r.Start
	}
	return &coordCursor{dimensions: dimensions, ranges: ranges, cursors: cursors}
}

// flatIndex maps the current coordinate to a linear row index via
// row-major strides.
func (it *coordCursor) flatIndex() int {
	index := 0
	scale := 1
	for i := len(it.dimensions) - 1; i >= 0; i-- {
		index += it.cursors[i] * scale
		scale *= it.dimensions[i]
	}
	return index
}

func (it *coordCursor) advance() {
	for d := len(it.dimensions) - 1; d >= 0; d-- {
		if it.cursors[d]+1 < it.ranges[d].End {
			it.cursors[d]++
			return
		}
		it.cursors[d] = it.ranges[d].Start
	}
	// every axis wrapped: the enumeration is complete
	it.done = true
}

func (it *coordCursor) next() (int, bool) {
	if it.done {
		return 0, false
	}
	index := it.flatIndex()
	it.advance()
	return index, true
}

// Slice selects the hyper-rectangle described by one coordinate range
// per dimension and returns it as a new StructuredCells. If any range
// is empty, the result has zero rows.
//
// The result retains the receiver's dimension extents rather than
// recomputing them from the range lengths, so after a slice the shape
// and the row count disagree and a further Slice of the result will
// address rows that are no longer there. Integrators comparing shapes
// must account for this.
func (s *StructuredCells) Slice(ranges []Range) (*StructuredCells, error) {
	if len(ranges) != len(s.dimensions) {
		return nil, errors.New(errors.ErrorTypeInvariant, "one range per dimension is required").
			WithDetail("ranges", len(ranges)).
			WithDetail("dimensions", len(s.dimensions))
	}

	mask := bitset.New(s.cells.Len())
	it := newCoordCursor(s.dimensions, ranges)
	for {
		index, ok := it.next()
		if !ok {
			break
		}
		mask.Set(index)
	}

	dimensions := make([]int, len(s.dimensions))
	copy(dimensions, s.dimensions)
	return &StructuredCells{
		dimensions: dimensions,
		cells:      s.cells.Filter(mask),
	}, nil
}
