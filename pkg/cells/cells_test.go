package cells_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayforge/cellgrid/pkg/bitset"
	"github.com/arrayforge/cellgrid/pkg/cells"
	"github.com/arrayforge/cellgrid/pkg/errors"
	"github.com/arrayforge/cellgrid/pkg/testutil"
)

func mustNew(t *testing.T, fields map[string]cells.FieldData) *cells.Cells {
	t.Helper()
	c, err := cells.New(fields)
	require.NoError(t, err)
	return c
}

func sortedNames(c *cells.Cells) []string {
	names := testutil.FieldNames(c)
	sort.Strings(names)
	return names
}

// sortColumn sorts a single column by its own bit ordering.
func sortColumn(t *testing.T, data cells.FieldData) cells.FieldData {
	t.Helper()
	single := mustNew(t, map[string]cells.FieldData{"f": data.Clone()})
	sorted, err := single.Sorted([]string{"f"})
	require.NoError(t, err)
	return sorted.Fields()["f"]
}

func TestNewLengthMismatch(t *testing.T) {
	_, err := cells.New(map[string]cells.FieldData{
		"a": cells.NewUint64Field([]uint64{1, 2}),
		"b": cells.NewUint64Field([]uint64{1}),
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestEmptyCells(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{})
	assert.Zero(t, c.Len())
	assert.True(t, c.IsEmpty())

	groups, err := c.IdentifyGroups(nil)
	require.NoError(t, err)
	assert.Nil(t, groups)
}

func TestSortLiteral(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"x": cells.NewInt64Field([]int64{3, 1, 2}),
		"y": cells.NewStringField([]string{"three", "one", "two"}),
	})

	require.NoError(t, c.Sort([]string{"x"}))

	x, ok := cells.FieldValues[int64](c.Fields()["x"])
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, x)

	// co-resident fields are permuted identically
	y, ok := cells.FieldValues[string](c.Fields()["y"])
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two", "three"}, y)
}

func TestSortUnknownKey(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"x": cells.NewInt64Field([]int64{1}),
	})
	err := c.Sort([]string{"nope"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestSortProperties(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			c := testutil.RandomCells(t, seed, 3, 17)
			names := sortedNames(c)
			keys := names[:1+int(seed)%len(names)]

			sorted, err := c.Sorted(keys)
			require.NoError(t, err)

			ok, err := sorted.IsSorted(keys)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.Equal(t, len(c.Fields()), len(sorted.Fields()))
			assert.Equal(t, c.Len(), sorted.Len())

			// an already sorted collection is unchanged by sorting
			wasSorted, err := c.IsSorted(keys)
			require.NoError(t, err)
			if wasSorted {
				assert.True(t, c.BitsEq(sorted))
			}

			// each column holds the same multiset of values before and after
			for _, name := range names {
				orig := sortColumn(t, c.Fields()[name])
				perm := sortColumn(t, sorted.Fields()[name])
				assert.True(t, orig.BitsEq(perm), "field %s", name)
			}
		})
	}
}

func TestDedupLiteral(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"k": cells.NewInt64Field([]int64{1, 1, 2, 2, 3}),
		"v": cells.NewUint32Field([]uint32{0, 1, 2, 3, 4}),
	})

	dedup, err := c.Dedup([]string{"k"})
	require.NoError(t, err)

	k, ok := cells.FieldValues[int64](dedup.Fields()["k"])
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, k)

	// the first occurrence of each key survives: original rows 0, 2, 4
	v, ok := cells.FieldValues[uint32](dedup.Fields()["v"])
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 2, 4}, v)
}

func TestDedupKeepsFirstOccurrenceLargeGroups(t *testing.T) {
	// Two key groups of 100 tied rows each, far beyond any small-input
	// sort fallback, so only a stable index sort keeps the smallest
	// original row of each group.
	const n = 200
	k := make([]int64, n)
	v := make([]uint64, n)
	for i := 0; i < n; i++ {
		k[i] = int64(i % 2)
		v[i] = uint64(i)
	}
	c := mustNew(t, map[string]cells.FieldData{
		"k": cells.NewInt64Field(k),
		"v": cells.NewUint64Field(v),
	})

	dedup, err := c.Dedup([]string{"k"})
	require.NoError(t, err)

	got, ok := cells.FieldValues[uint64](dedup.Fields()["v"])
	require.True(t, ok)
	assert.Equal(t, []uint64{0, 1}, got)
}

func TestSortStableOnTiedKeys(t *testing.T) {
	const n = 200
	k := make([]int64, n)
	v := make([]uint64, n)
	for i := 0; i < n; i++ {
		k[i] = int64(i % 2)
		v[i] = uint64(i)
	}
	c := mustNew(t, map[string]cells.FieldData{
		"k": cells.NewInt64Field(k),
		"v": cells.NewUint64Field(v),
	})

	require.NoError(t, c.Sort([]string{"k"}))

	// rows tied on k keep their original relative order
	var want []uint64
	for i := uint64(0); i < n; i += 2 {
		want = append(want, i)
	}
	for i := uint64(1); i < n; i += 2 {
		want = append(want, i)
	}
	got, ok := cells.FieldValues[uint64](c.Fields()["v"])
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDedupProperties(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			c := testutil.RandomCells(t, seed, 2, 23)
			names := sortedNames(c)
			keys := names[:1+int(seed)%len(names)]

			dedup, err := c.Dedup(keys)
			require.NoError(t, err)

			count, err := dedup.CountDistinct(keys)
			require.NoError(t, err)
			assert.Equal(t, dedup.Len(), count)

			for _, data := range dedup.Fields() {
				assert.Equal(t, dedup.Len(), data.Len())
			}

			if dedup.Len() == c.Len() {
				assert.True(t, c.BitsEq(dedup))
				return
			}

			// kept rows appear in the same relative order as in the input
			first, err := c.View(keys, 0, 1)
			require.NoError(t, err)
			firstOut, err := dedup.View(keys, 0, 1)
			require.NoError(t, err)
			assert.True(t, first.Equal(firstOut))

			inCursor, outCursor := 1, 1
			for inCursor < c.Len() && outCursor < dedup.Len() {
				in, err := c.View(keys, inCursor, inCursor+1)
				require.NoError(t, err)
				out, err := dedup.View(keys, outCursor, outCursor+1)
				require.NoError(t, err)
				if in.Equal(out) {
					outCursor++
				}
				inCursor++
			}
			assert.Equal(t, dedup.Len(), outCursor)
		})
	}
}

func TestCountDistinctSingleField(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		c := testutil.RandomCells(t, seed, 3, 19)
		for _, name := range sortedNames(c) {
			// expected: sort the column alone, count adjacent transitions
			single := mustNew(t, map[string]cells.FieldData{name: c.Fields()[name].Clone()})
			sorted, err := single.Sorted([]string{name})
			require.NoError(t, err)
			groups, err := sorted.IdentifyGroups([]string{name})
			require.NoError(t, err)
			expect := len(groups) - 1

			actual, err := c.CountDistinct([]string{name})
			require.NoError(t, err)
			assert.Equal(t, expect, actual, "field %s seed %d", name, seed)
		}
	}
}

func TestIdentifyGroupsInvariants(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		c := testutil.RandomCells(t, seed, 2, 15)
		names := sortedNames(c)
		keys := names[:1+int(seed)%len(names)]

		groups, err := c.IdentifyGroups(keys)
		require.NoError(t, err)
		require.NotNil(t, groups)

		assert.Equal(t, 0, groups[0])
		assert.Equal(t, c.Len(), groups[len(groups)-1])

		rowView := func(i int) *cells.CellsView {
			v, err := c.View(keys, i, i+1)
			require.NoError(t, err)
			return v
		}

		for g := 0; g+1 < len(groups); g++ {
			start, end := groups[g], groups[g+1]
			require.Less(t, start, end)

			// every row of a run matches the run's first row on the keys
			for i := start; i < end; i++ {
				assert.True(t, rowView(start).Equal(rowView(i)))
			}
			// adjacent runs differ on at least one key
			if end < c.Len() {
				assert.False(t, rowView(start).Equal(rowView(end)))
			}
		}
	}
}

func TestProjection(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewUint64Field([]uint64{1, 2}),
		"b": cells.NewStringField([]string{"x", "y"}),
		"c": cells.NewFloat32Field([]float32{0.5, 1.5}),
	})

	proj, err := c.Projection([]string{"a", "c"})
	require.NoError(t, err)
	assert.Len(t, proj.Fields(), 2)
	assert.True(t, proj.Fields()["a"].BitsEq(c.Fields()["a"]))
	assert.True(t, proj.Fields()["c"].BitsEq(c.Fields()["c"]))

	_, err = c.Projection([]string{"a", "missing"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestExtend(t *testing.T) {
	dst := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{1, 2}),
		"b": cells.NewStringField([]string{"p", "q"}),
	})
	src := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{3}),
		"b": cells.NewStringField([]string{"r"}),
	})
	origDst := dst.Clone()

	require.NoError(t, dst.Extend(src))
	assert.Equal(t, 3, dst.Len())

	for name, data := range dst.Fields() {
		assert.True(t, data.Slice(0, origDst.Len()).BitsEq(origDst.Fields()[name]))
		assert.True(t, data.Slice(origDst.Len(), src.Len()).BitsEq(src.Fields()[name]))
	}
}

func TestExtendFieldSetMismatch(t *testing.T) {
	dst := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{1}),
	})
	src := mustNew(t, map[string]cells.FieldData{
		"z": cells.NewInt64Field([]int64{1}),
	})
	err := dst.Extend(src)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestCopyFrom(t *testing.T) {
	t.Run("adopts absent fields", func(t *testing.T) {
		dst := mustNew(t, map[string]cells.FieldData{})
		src := mustNew(t, map[string]cells.FieldData{
			"a": cells.NewUint8Field([]uint8{1, 2}),
		})
		require.NoError(t, dst.CopyFrom(src))
		assert.True(t, dst.BitsEq(src))
	})

	t.Run("replaces shorter or equal columns", func(t *testing.T) {
		dst := mustNew(t, map[string]cells.FieldData{
			"a": cells.NewUint8Field([]uint8{9, 9}),
		})
		src := mustNew(t, map[string]cells.FieldData{
			"a": cells.NewUint8Field([]uint8{1, 2, 3}),
		})
		require.NoError(t, dst.CopyFrom(src))
		assert.True(t, dst.Fields()["a"].BitsEq(cells.NewUint8Field([]uint8{1, 2, 3})))
	})

	t.Run("overwrites prefix of longer columns", func(t *testing.T) {
		dst := mustNew(t, map[string]cells.FieldData{
			"a": cells.NewUint8Field([]uint8{9, 9, 9, 9}),
		})
		src := mustNew(t, map[string]cells.FieldData{
			"a": cells.NewUint8Field([]uint8{1, 2}),
		})
		require.NoError(t, dst.CopyFrom(src))
		assert.True(t, dst.Fields()["a"].BitsEq(cells.NewUint8Field([]uint8{1, 2, 9, 9})))
	})
}

func TestAddField(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{1, 2}),
	})

	err := c.AddField("b", cells.NewStringField([]string{"x"}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))

	err = c.AddField("a", cells.NewInt64Field([]int64{3, 4}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))

	require.NoError(t, c.AddField("b", cells.NewStringField([]string{"x", "y"})))
	assert.Len(t, c.Fields(), 2)
}

func TestFilter(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{1, 2, 3, 4}),
		"b": cells.NewStringField([]string{"w", "x", "y", "z"}),
	})

	set := bitset.New(4)
	set.Set(1)
	set.Set(3)

	kept := c.Filter(set)
	assert.Equal(t, 2, kept.Len())
	assert.True(t, kept.Fields()["a"].BitsEq(cells.NewInt64Field([]int64{2, 4})))
	assert.True(t, kept.Fields()["b"].BitsEq(cells.NewStringField([]string{"x", "z"})))
}

func TestTruncate(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{1, 2, 3}),
		"b": cells.NewFloat64Field([]float64{0.5, 1.5, 2.5}),
	})
	c.Truncate(1)
	assert.Equal(t, 1, c.Len())
	for _, data := range c.Fields() {
		assert.Equal(t, 1, data.Len())
	}
}

func TestCellsBitsEq(t *testing.T) {
	c := mustNew(t, map[string]cells.FieldData{
		"a": cells.NewInt64Field([]int64{1, 2}),
	})

	same := c.Clone()
	assert.True(t, c.BitsEq(same))

	// an extra field on the other side is caught by the field count
	require.NoError(t, same.AddField("b", cells.NewInt64Field([]int64{0, 0})))
	assert.False(t, c.BitsEq(same))
	assert.False(t, same.BitsEq(c))
}

func BenchmarkSort(b *testing.B) {
	values := make([]int64, 4096)
	payload := make([]float64, 4096)
	for i := range values {
		values[i] = int64(i) * 2654435761 % 1013
		payload[i] = float64(i)
	}
	c, err := cells.New(map[string]cells.FieldData{
		"k": cells.NewInt64Field(values),
		"v": cells.NewFloat64Field(payload),
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Sorted([]string{"k", "v"}); err != nil {
			b.Fatal(err)
		}
	}
}
