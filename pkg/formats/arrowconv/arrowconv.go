// Package arrowconv converts cell collections to and from Apache
// Arrow records. Storage-engine adapters that speak Arrow exchange
// columns with the oracle through this surface.
//
// The cell-data model has no null concept, so records carrying null
// values are rejected rather than silently coerced.
package arrowconv

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/arrayforge/cellgrid/pkg/cells"
	"github.com/arrayforge/cellgrid/pkg/errors"
	"github.com/arrayforge/cellgrid/pkg/physical"
)

// ArrowType maps a physical type to its Arrow data type.
func ArrowType(t physical.Type) (arrow.DataType, error) {
	switch t {
	case physical.TypeUint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case physical.TypeUint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case physical.TypeUint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case physical.TypeUint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case physical.TypeInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case physical.TypeInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case physical.TypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case physical.TypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case physical.TypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case physical.TypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case physical.TypeBytes:
		return arrow.BinaryTypes.Binary, nil
	case physical.TypeString:
		return arrow.BinaryTypes.String, nil
	}
	return nil, errors.New(errors.ErrorTypeTypeMismatch, "no Arrow type for physical type").
		WithDetail("type", t.String())
}

// Schema builds an Arrow schema for the collection, fields in name
// order so output is stable.
func Schema(c *cells.Cells) (*arrow.Schema, error) {
	names := make([]string, 0, len(c.Fields()))
	for name := range c.Fields() {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]arrow.Field, 0, len(names))
	for _, name := range names {
		dt, err := ArrowType(c.Fields()[name].Type())
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: name, Type: dt})
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToRecord converts a collection to an Arrow record. The caller owns
// the returned record and must Release it.
func ToRecord(c *cells.Cells) (arrow.Record, error) {
	schema, err := Schema(c)
	if err != nil {
		return nil, err
	}

	pool := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(pool, schema)
	defer rb.Release()

	for i, field := range schema.Fields() {
		if err := appendColumn(rb.Field(i), c.Fields()[field.Name]); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to build Arrow column").
				WithDetail("field", field.Name)
		}
	}

	return rb.NewRecord(), nil
}

// FromRecord converts an Arrow record to a collection. Records with
// null values or unsupported column types are rejected.
func FromRecord(rec arrow.Record) (*cells.Cells, error) {
	fields := make(map[string]cells.FieldData, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		name := rec.Schema().Field(i).Name
		col := rec.Column(i)
		if col.NullN() > 0 {
			return nil, errors.New(errors.ErrorTypeData, "Arrow column contains nulls").
				WithDetail("field", name)
		}
		data, err := fromArray(col)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to convert Arrow column").
				WithDetail("field", name)
		}
		fields[name] = data
	}
	return cells.New(fields)
}

func appendColumn(builder array.Builder, data cells.FieldData) error {
	switch b := builder.(type) {
	case *array.Uint8Builder:
		v, _ := cells.FieldValues[uint8](data)
		b.AppendValues(v, nil)
	case *array.Uint16Builder:
		v, _ := cells.FieldValues[uint16](data)
		b.AppendValues(v, nil)
	case *array.Uint32Builder:
		v, _ := cells.FieldValues[uint32](data)
		b.AppendValues(v, nil)
	case *array.Uint64Builder:
		v, _ := cells.FieldValues[uint64](data)
		b.AppendValues(v, nil)
	case *array.Int8Builder:
		v, _ := cells.FieldValues[int8](data)
		b.AppendValues(v, nil)
	case *array.Int16Builder:
		v, _ := cells.FieldValues[int16](data)
		b.AppendValues(v, nil)
	case *array.Int32Builder:
		v, _ := cells.FieldValues[int32](data)
		b.AppendValues(v, nil)
	case *array.Int64Builder:
		v, _ := cells.FieldValues[int64](data)
		b.AppendValues(v, nil)
	case *array.Float32Builder:
		v, _ := cells.FieldValues[float32](data)
		b.AppendValues(v, nil)
	case *array.Float64Builder:
		v, _ := cells.FieldValues[float64](data)
		b.AppendValues(v, nil)
	case *array.BinaryBuilder:
		v, _ := cells.FieldValues[[]byte](data)
		b.AppendValues(v, nil)
	case *array.StringBuilder:
		v, _ := cells.FieldValues[string](data)
		b.AppendValues(v, nil)
	default:
		return errors.New(errors.ErrorTypeTypeMismatch, "unsupported Arrow builder").
			WithDetail("builder", builder.Type().String())
	}
	return nil
}

func fromArray(col arrow.Array) (cells.FieldData, error) {
	switch c := col.(type) {
	case *array.Uint8:
		return cells.NewUint8Field(c.Uint8Values()), nil
	case *array.Uint16:
		return cells.NewUint16Field(c.Uint16Values()), nil
	case *array.Uint32:
		return cells.NewUint32Field(c.Uint32Values()), nil
	case *array.Uint64:
		return cells.NewUint64Field(c.Uint64Values()), nil
	case *array.Int8:
		return cells.NewInt8Field(c.Int8Values()), nil
	case *array.Int16:
		return cells.NewInt16Field(c.Int16Values()), nil
	case *array.Int32:
		return cells.NewInt32Field(c.Int32Values()), nil
	case *array.Int64:
		return cells.NewInt64Field(c.Int64Values()), nil
	case *array.Float32:
		return cells.NewFloat32Field(c.Float32Values()), nil
	case *array.Float64:
		return cells.NewFloat64Field(c.Float64Values()), nil
	case *array.Binary:
		values := make([][]byte, c.Len())
		for i := range values {
			values[i] = c.Value(i)
		}
		return cells.NewBytesField(values), nil
	case *array.String:
		values := make([]string, c.Len())
		for i := range values {
			values[i] = c.Value(i)
		}
		return cells.NewStringField(values), nil
	}
	return nil, errors.New(errors.ErrorTypeTypeMismatch, "unsupported Arrow column type").
		WithDetail("type", col.DataType().String())
}
