// Package cells implements the in-memory columnar cell-data model that
// serves as the correctness oracle for storage-engine read and write
// paths. It reproduces exact record semantics (ordering, grouping,
// deduplication and N-dimensional slicing) independent of any on-disk
// format.
//
// The model is built from four pieces:
//
//   - FieldData: a homogeneous column of one physical type behind a
//     closed interface, with generic length/slice/truncate/extend/
//     filter operations.
//   - Cells: a mapping from field name to FieldData that shares one
//     row count and provides the row algorithms (Sort, Dedup,
//     IdentifyGroups, CountDistinct, Projection, Extend, Filter).
//   - StructuredCells: a Cells plus dimension extents, adding
//     row-major N-dimensional addressing and hyper-rectangle slicing.
//   - CellsView: a borrowed comparator over a field subset and row
//     range, for equality checks without copying.
//
// All comparisons are exact-bit comparisons (see pkg/physical), not
// value comparisons: a NaN equals an identical NaN, and +0.0 differs
// from -0.0.
//
// Everything here is synchronous and value-oriented. Transforming
// operations (Filter, Slice, Sorted, Projection, Dedup) return deep,
// non-aliased copies; in-place operations (Sort, Truncate, CopyFrom,
// Extend, AddField) require exclusive access to the receiver.
package cells
