package cells

import (
	"sort"

	"github.com/arrayforge/cellgrid/pkg/bitset"
	"github.com/arrayforge/cellgrid/pkg/errors"
)

// Cells is a columnar collection of records: a mapping from unique
// field name to a FieldData column. Every column has the same number
// of rows, and row i of every column describes the same logical
// record. Row order is significant.
type Cells struct {
	fields map[string]FieldData
}

// New creates a collection from the given columns, taking ownership of
// the map. It fails with an invariant violation if the columns do not
// all share one row count.
func New(fields map[string]FieldData) (*Cells, error) {
	expect := -1
	for name, data := range fields {
		if expect == -1 {
			expect = data.Len()
			continue
		}
		if data.Len() != expect {
			return nil, errors.New(errors.ErrorTypeInvariant, "fields must all have the same number of cells").
				WithDetail("field", name).
				WithDetail("length", data.Len()).
				WithDetail("expected", expect)
		}
	}
	return &Cells{fields: fields}, nil
}

// Len returns the shared row count, or zero when there are no fields.
func (c *Cells) Len() int {
	for _, data := range c.fields {
		return data.Len()
	}
	return 0
}

// IsEmpty reports whether the collection has no rows.
func (c *Cells) IsEmpty() bool { return c.Len() == 0 }

// Fields exposes the column map. Callers must not mutate it.
func (c *Cells) Fields() map[string]FieldData { return c.fields }

// Clone returns a deep copy.
func (c *Cells) Clone() *Cells {
	fields := make(map[string]FieldData, len(c.fields))
	for name, data := range c.fields {
		fields[name] = data.Clone()
	}
	return &Cells{fields: fields}
}

// CopyFrom copies data from the argument. Fields absent from the
// receiver are adopted. For a field present on both sides: when the
// existing column is no longer than the incoming one, the incoming
// column replaces it entirely, which may change the collection's row
// count and can leave field lengths out of sync, so callers doing
// partial copies must re-establish the shared row count themselves.
// Otherwise only the first len(incoming) rows are overwritten in
// place and the remaining rows are untouched.
func (c *Cells) CopyFrom(other *Cells) error {
	for name, theirs := range other.fields {
		mine, ok := c.fields[name]
		if !ok {
			c.fields[name] = theirs.Clone()
			continue
		}
		if mine.Len() <= theirs.Len() {
			c.fields[name] = theirs.Clone()
		} else if err := mine.overwritePrefix(theirs); err != nil {
			return err
		}
	}
	return nil
}

// Truncate shortens the cells, keeping the first length records and
// dropping the rest.
func (c *Cells) Truncate(length int) {
	for _, data := range c.fields {
		data.Truncate(length)
	}
}

// Extend appends other's records after the receiver's. The two
// collections must have exactly the same field names and types.
func (c *Cells) Extend(other *Cells) error {
	if len(c.fields) != len(other.fields) {
		return errors.New(errors.ErrorTypeTypeMismatch, "cannot extend cells with a different field set").
			WithDetail("fields", len(c.fields)).
			WithDetail("other_fields", len(other.fields))
	}
	for name := range c.fields {
		if _, ok := other.fields[name]; !ok {
			return errors.New(errors.ErrorTypeTypeMismatch, "cannot extend cells with a different field set").
				WithDetail("missing_field", name)
		}
	}
	for name, data := range c.fields {
		if err := data.Extend(other.fields[name]); err != nil {
			return err
		}
	}
	return nil
}

// View returns a borrowed view over the half-open row range
// [start, end) with only the fields named by keys compared. The view
// must not outlive the receiver. It fails with a lookup error if any
// key is not a present field name.
func (c *Cells) View(keys []string, start, end int) (*CellsView, error) {
	for _, k := range keys {
		if _, ok := c.fields[k]; !ok {
			return nil, errors.New(errors.ErrorTypeNotFound, "cannot construct view: key not found").
				WithDetail("key", k)
		}
	}
	return &CellsView{cells: c, keys: keys, start: start, end: end}, nil
}

// keyColumns resolves keys to their columns, in key order.
func (c *Cells) keyColumns(keys []string) ([]FieldData, error) {
	cols := make([]FieldData, len(keys))
	for i, k := range keys {
		data, ok := c.fields[k]
		if !ok {
			return nil, errors.New(errors.ErrorTypeNotFound, "key is not a field").
				WithDetail("key", k)
		}
		cols[i] = data
	}
	return cols, nil
}

// cmpRowsBy compares rows l and r key by key in the given key order
// using per-field bit ordering. The first key that differs decides.
func cmpRowsBy(cols []FieldData, l, r int) int {
	for _, col := range cols {
		if o := col.cmpRows(l, r); o != 0 {
			return o
		}
	}
	return 0
}

// IsSorted reports whether every adjacent row pair is non-decreasing
// under the composite key comparator.
func (c *Cells) IsSorted(keys []string) (bool, error) {
	cols, err := c.keyColumns(keys)
	if err != nil {
		return false, err
	}
	for i := 1; i < c.Len(); i++ {
		if cmpRowsBy(cols, i-1, i) > 0 {
			return false, nil
		}
	}
	return true, nil
}

// Sort reorders the records in place using keys. Rows equal on the
// first key are ordered by the second, and so on. The sort is stable:
// rows that tie on every key keep their original relative order, so
// sorting an already-sorted collection leaves it bits-equal. The same
// permutation is applied to every field, preserving cross-field row
// alignment.
func (c *Cells) Sort(keys []string) error {
	cols, err := c.keyColumns(keys)
	if err != nil {
		return err
	}

	perm := make([]int, c.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return cmpRowsBy(cols, perm[a], perm[b]) < 0
	})

	for _, data := range c.fields {
		data.applyPermutation(perm)
	}
	return nil
}

// Sorted returns a sorted copy without mutating the receiver.
func (c *Cells) Sorted(keys []string) (*Cells, error) {
	sorted := c.Clone()
	if err := sorted.Sort(keys); err != nil {
		return nil, err
	}
	return sorted, nil
}

// IdentifyGroups returns the row offsets beginning each run of
// contiguous records that are bits-equal on keys, starting at 0 and
// ending at Len. It returns nil for an empty collection. Grouping is
// strictly by adjacency, not a global group-by: rows are typically
// pre-sorted on keys first.
func (c *Cells) IdentifyGroups(keys []string) ([]int, error) {
	cols, err := c.keyColumns(keys)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, nil
	}

	groups := []int{0}
	icmp := 0
	for i := 1; i < c.Len(); i++ {
		if cmpRowsBy(cols, i, icmp) != 0 {
			groups = append(groups, i)
			icmp = i
		}
	}
	groups = append(groups, c.Len())
	return groups, nil
}

// CountDistinct counts the distinct key-field value combinations
// across all rows. Adjacency is not required: the key fields are
// projected, sorted, and the group transitions counted.
func (c *Cells) CountDistinct(keys []string) (int, error) {
	if _, err := c.keyColumns(keys); err != nil {
		return 0, err
	}
	if c.Len() <= 1 {
		return c.Len(), nil
	}

	keyFields := make(map[string]FieldData, len(keys))
	for _, k := range keys {
		keyFields[k] = c.fields[k].Clone()
	}
	keyCells := &Cells{fields: keyFields}
	if err := keyCells.Sort(keys); err != nil {
		return 0, err
	}

	cols, err := keyCells.keyColumns(keys)
	if err != nil {
		return 0, err
	}
	icmp := 0
	count := 1
	for i := 1; i < keyCells.Len(); i++ {
		if cmpRowsBy(cols, i, icmp) != 0 {
			icmp = i
			count++
		}
	}
	return count, nil
}

// Filter returns a new collection containing exactly the rows whose
// bit is set, for every field, preserving original relative order.
func (c *Cells) Filter(set *bitset.Bitset) *Cells {
	fields := make(map[string]FieldData, len(c.fields))
	for name, data := range c.fields {
		fields[name] = data.Filter(set)
	}
	return &Cells{fields: fields}
}

// Dedup returns the subset of rows with exactly one row per distinct
// key combination, keeping the first occurrence in original row order
// of each combination.
func (c *Cells) Dedup(keys []string) (*Cells, error) {
	cols, err := c.keyColumns(keys)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return c.Clone(), nil
	}

	idx := make([]int, c.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return cmpRowsBy(cols, idx[a], idx[b]) < 0
	})

	// The stable sort keeps tied rows in index order, so the first
	// entry of each key group in idx is the smallest original row
	// index. Filtering walks rows in original order, so the kept rows
	// retain their original relative order.
	preserve := bitset.New(len(idx))
	preserve.Set(idx[0])
	icmp := 0
	for i := 1; i < len(idx); i++ {
		if cmpRowsBy(cols, idx[i], idx[icmp]) != 0 {
			icmp = i
			preserve.Set(idx[i])
		}
	}

	return c.Filter(preserve), nil
}

// Projection returns a new collection holding only the named fields.
// It fails with a lookup error if any field is absent; there is no
// partial result.
func (c *Cells) Projection(fields []string) (*Cells, error) {
	projected := make(map[string]FieldData, len(fields))
	for _, name := range fields {
		data, ok := c.fields[name]
		if !ok {
			return nil, errors.New(errors.ErrorTypeNotFound, "cannot project: field not found").
				WithDetail("field", name)
		}
		projected[name] = data.Clone()
	}
	return &Cells{fields: projected}, nil
}

// AddField inserts a new column. It fails when the column length does
// not match the current row count or when the name is already taken.
func (c *Cells) AddField(name string, values FieldData) error {
	if c.Len() != values.Len() {
		return errors.New(errors.ErrorTypeInvariant, "field length does not match cell count").
			WithDetail("field", name).
			WithDetail("length", values.Len()).
			WithDetail("expected", c.Len())
	}
	if _, ok := c.fields[name]; ok {
		return errors.New(errors.ErrorTypeConflict, "field already exists").
			WithDetail("field", name)
	}
	c.fields[name] = values
	return nil
}

// BitsEq reports exact-bit equality: every field of the receiver is
// present and bits-equal in other, and the two collections have the
// same number of fields. The field-count check catches extra fields
// on either side without enumerating other's names.
func (c *Cells) BitsEq(other *Cells) bool {
	for name, mine := range c.fields {
		theirs, ok := other.fields[name]
		if !ok || !mine.BitsEq(theirs) {
			return false
		}
	}
	return len(c.fields) == len(other.fields)
}
