package cells

// CellsView is a borrowed, lazily evaluated comparator over a field
// subset and half-open row range of a Cells. It owns no data and must
// not outlive the collection it references. It is useful for comparing
// a section of one collection to another without copying either.
type CellsView struct {
	cells *Cells
	keys  []string
	start int
	end   int
}

// RangeLen returns the number of rows the view selects.
func (v *CellsView) RangeLen() int {
	if v.end <= v.start {
		return 0
	}
	return v.end - v.start
}

// Equal reports whether two views select bits-equal data: the row
// ranges have the same length, every key field of the receiver exists
// in other's collection with an element-wise bits-equal row range, and
// both views select the same number of key fields. A key field missing
// from other's collection makes the views unequal; it is not an error.
func (v *CellsView) Equal(other *CellsView) bool {
	n := v.RangeLen()
	if n != other.RangeLen() {
		return false
	}

	for _, key := range v.keys {
		// present by construction
		mine := v.cells.fields[key]
		theirs, ok := other.cells.fields[key]
		if !ok {
			return false
		}
		if !mine.rangeEq(theirs, v.start, other.start, n) {
			return false
		}
	}

	return len(v.keys) == len(other.keys)
}
