// Package cellgrid provides an in-memory columnar cell-data model used
// as the reference oracle for validating storage-engine read and write
// paths. It reproduces exact record semantics (ordering, grouping,
// deduplication and N-dimensional slicing) with exact-bit value
// comparison, independent of any on-disk format.
//
// # Quick Start
//
// Build a collection, sort it, and deduplicate on a key field:
//
//	import "github.com/arrayforge/cellgrid/pkg/cells"
//
//	c, err := cells.New(map[string]cells.FieldData{
//	    "id":    cells.NewUint64Field([]uint64{3, 1, 2, 1}),
//	    "score": cells.NewFloat64Field([]float64{0.3, 0.1, 0.2, 0.9}),
//	})
//	if err != nil {
//	    return err
//	}
//
//	sorted, err := c.Sorted([]string{"id"})
//	unique, err := c.Dedup([]string{"id"})
//
// Wrap a collection in a shape for N-dimensional slicing:
//
//	s, err := cells.NewStructured([]int{2, 3}, c)
//	sliced, err := s.Slice([]cells.Range{{Start: 0, End: 2}, {Start: 1, End: 3}})
//
// # Key Packages
//
//	pkg/cells             - Cells, FieldData, StructuredCells, CellsView
//	pkg/physical          - physical types and exact-bit comparison
//	pkg/bitset            - row-selection masks
//	pkg/formats/dataset   - JSON dataset documents for fixtures
//	pkg/formats/arrowconv - Apache Arrow record interchange
//	pkg/errors            - structured error handling
//	pkg/logger            - structured logging (zap)
//	cmd/cellgrid          - command-line oracle toolkit
package cellgrid
