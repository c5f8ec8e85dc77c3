package arrowconv

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayforge/cellgrid/pkg/cells"
	"github.com/arrayforge/cellgrid/pkg/errors"
	"github.com/arrayforge/cellgrid/pkg/physical"
)

func testCells(t *testing.T) *cells.Cells {
	t.Helper()
	c, err := cells.New(map[string]cells.FieldData{
		"id":    cells.NewUint64Field([]uint64{1, 2, 3}),
		"delta": cells.NewInt32Field([]int32{-1, 0, 1}),
		"score": cells.NewFloat64Field([]float64{0.5, 1.5, 2.5}),
		"name":  cells.NewStringField([]string{"a", "b", "c"}),
		"raw":   cells.NewBytesField([][]byte{{0x01}, {0x02, 0x03}, {}}),
	})
	require.NoError(t, err)
	return c
}

func TestSchema(t *testing.T) {
	schema, err := Schema(testCells(t))
	require.NoError(t, err)

	// fields come out in name order
	names := make([]string, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"delta", "id", "name", "raw", "score"}, names)

	idField, ok := schema.FieldsByName("id")
	require.True(t, ok)
	assert.Equal(t, arrow.PrimitiveTypes.Uint64, idField[0].Type)
}

func TestRecordRoundTrip(t *testing.T) {
	c := testCells(t)

	rec, err := ToRecord(c)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(5), rec.NumCols())

	back, err := FromRecord(rec)
	require.NoError(t, err)
	assert.True(t, c.BitsEq(back))
}

func TestFromRecordRejectsNulls(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
	rb := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer rb.Release()

	rb.Field(0).(*array.Int64Builder).Append(1)
	rb.Field(0).(*array.Int64Builder).AppendNull()
	rec := rb.NewRecord()
	defer rec.Release()

	_, err := FromRecord(rec)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestArrowTypeMapping(t *testing.T) {
	for typ, want := range map[physical.Type]arrow.DataType{
		physical.TypeUint8:   arrow.PrimitiveTypes.Uint8,
		physical.TypeInt16:   arrow.PrimitiveTypes.Int16,
		physical.TypeFloat32: arrow.PrimitiveTypes.Float32,
		physical.TypeBytes:   arrow.BinaryTypes.Binary,
		physical.TypeString:  arrow.BinaryTypes.String,
	} {
		got, err := ArrowType(typ)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
