// Package dataset implements a self-describing JSON document format
// for cell collections, used to feed literal fixtures to the oracle
// from the command-line tool and external test harnesses.
//
// A document lists one entry per field with its name, physical type
// and values, plus optional dimension extents:
//
//	{
//	  "fields": [
//	    {"name": "id", "type": "uint64", "values": [1, 2, 3]},
//	    {"name": "score", "type": "float64", "values": [0.5, 1.5, 2.5]}
//	  ],
//	  "dimensions": [3]
//	}
//
// Byte values are encoded as base64 strings, following encoding/json
// convention for []byte.
package dataset

import (
	"os"
	"sort"

	gojson "github.com/goccy/go-json"

	"github.com/arrayforge/cellgrid/pkg/cells"
	"github.com/arrayforge/cellgrid/pkg/errors"
	"github.com/arrayforge/cellgrid/pkg/physical"
)

// Document is the top-level JSON shape.
type Document struct {
	Fields     []FieldDocument `json:"fields"`
	Dimensions []int           `json:"dimensions,omitempty"`
}

// FieldDocument carries one named, typed column.
type FieldDocument struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Values gojson.RawMessage `json:"values"`
}

// Decode parses a dataset document into a Cells and its optional
// dimension extents.
func Decode(data []byte) (*cells.Cells, []int, error) {
	var doc Document
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse dataset document")
	}

	fields := make(map[string]cells.FieldData, len(doc.Fields))
	for _, fd := range doc.Fields {
		if _, ok := fields[fd.Name]; ok {
			return nil, nil, errors.New(errors.ErrorTypeConflict, "duplicate field in dataset document").
				WithDetail("field", fd.Name)
		}
		col, err := decodeField(fd)
		if err != nil {
			return nil, nil, err
		}
		fields[fd.Name] = col
	}

	c, err := cells.New(fields)
	if err != nil {
		return nil, nil, err
	}
	return c, doc.Dimensions, nil
}

// Encode renders a Cells and optional dimension extents as a dataset
// document. Fields are emitted in name order so output is stable.
func Encode(c *cells.Cells, dimensions []int) ([]byte, error) {
	names := make([]string, 0, len(c.Fields()))
	for name := range c.Fields() {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := Document{Dimensions: dimensions}
	for _, name := range names {
		fd, err := encodeField(name, c.Fields()[name])
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, fd)
	}

	out, err := gojson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to marshal dataset document")
	}
	return out, nil
}

// LoadFile reads and decodes a dataset document from disk.
func LoadFile(path string) (*cells.Cells, []int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the CLI user
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read dataset file")
	}
	return Decode(data)
}

// SaveFile encodes a dataset document and writes it to disk, or to
// stdout when path is "-".
func SaveFile(path string, c *cells.Cells, dimensions []int) error {
	data, err := Encode(c, dimensions)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write dataset file")
	}
	return nil
}

func decodeField(fd FieldDocument) (cells.FieldData, error) {
	typ, err := physical.ParseType(fd.Type)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "dataset field has unknown type").
			WithDetail("field", fd.Name)
	}

	fail := func(err error) error {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to decode dataset field values").
			WithDetail("field", fd.Name).
			WithDetail("type", fd.Type)
	}

	switch typ {
	case physical.TypeUint8, physical.TypeUint16, physical.TypeUint32, physical.TypeUint64:
		var values []uint64
		if err := gojson.Unmarshal(fd.Values, &values); err != nil {
			return nil, fail(err)
		}
		switch typ {
		case physical.TypeUint8:
			return cells.NewUint8Field(convertSlice[uint64, uint8](values)), nil
		case physical.TypeUint16:
			return cells.NewUint16Field(convertSlice[uint64, uint16](values)), nil
		case physical.TypeUint32:
			return cells.NewUint32Field(convertSlice[uint64, uint32](values)), nil
		default:
			return cells.NewUint64Field(values), nil
		}
	case physical.TypeInt8, physical.TypeInt16, physical.TypeInt32, physical.TypeInt64:
		var values []int64
		if err := gojson.Unmarshal(fd.Values, &values); err != nil {
			return nil, fail(err)
		}
		switch typ {
		case physical.TypeInt8:
			return cells.NewInt8Field(convertSlice[int64, int8](values)), nil
		case physical.TypeInt16:
			return cells.NewInt16Field(convertSlice[int64, int16](values)), nil
		case physical.TypeInt32:
			return cells.NewInt32Field(convertSlice[int64, int32](values)), nil
		default:
			return cells.NewInt64Field(values), nil
		}
	case physical.TypeFloat32:
		var values []float32
		if err := gojson.Unmarshal(fd.Values, &values); err != nil {
			return nil, fail(err)
		}
		return cells.NewFloat32Field(values), nil
	case physical.TypeFloat64:
		var values []float64
		if err := gojson.Unmarshal(fd.Values, &values); err != nil {
			return nil, fail(err)
		}
		return cells.NewFloat64Field(values), nil
	case physical.TypeBytes:
		var values [][]byte
		if err := gojson.Unmarshal(fd.Values, &values); err != nil {
			return nil, fail(err)
		}
		return cells.NewBytesField(values), nil
	case physical.TypeString:
		var values []string
		if err := gojson.Unmarshal(fd.Values, &values); err != nil {
			return nil, fail(err)
		}
		return cells.NewStringField(values), nil
	}

	return nil, errors.New(errors.ErrorTypeData, "unsupported dataset field type").
		WithDetail("field", fd.Name).
		WithDetail("type", fd.Type)
}

func encodeField(name string, data cells.FieldData) (FieldDocument, error) {
	values, err := rawValues(data)
	if err != nil {
		return FieldDocument{}, errors.Wrap(err, errors.ErrorTypeData, "failed to encode dataset field values").
			WithDetail("field", name)
	}
	return FieldDocument{
		Name:   name,
		Type:   data.Type().String(),
		Values: values,
	}, nil
}

func rawValues(data cells.FieldData) (gojson.RawMessage, error) {
	switch data.Type() {
	case physical.TypeUint8:
		v, _ := cells.FieldValues[uint8](data)
		return gojson.Marshal(convertSlice[uint8, uint64](v))
	case physical.TypeUint16:
		v, _ := cells.FieldValues[uint16](data)
		return gojson.Marshal(v)
	case physical.TypeUint32:
		v, _ := cells.FieldValues[uint32](data)
		return gojson.Marshal(v)
	case physical.TypeUint64:
		v, _ := cells.FieldValues[uint64](data)
		return gojson.Marshal(v)
	case physical.TypeInt8:
		v, _ := cells.FieldValues[int8](data)
		return gojson.Marshal(v)
	case physical.TypeInt16:
		v, _ := cells.FieldValues[int16](data)
		return gojson.Marshal(v)
	case physical.TypeInt32:
		v, _ := cells.FieldValues[int32](data)
		return gojson.Marshal(v)
	case physical.TypeInt64:
		v, _ := cells.FieldValues[int64](data)
		return gojson.Marshal(v)
	case physical.TypeFloat32:
		v, _ := cells.FieldValues[float32](data)
		return gojson.Marshal(v)
	case physical.TypeFloat64:
		v, _ := cells.FieldValues[float64](data)
		return gojson.Marshal(v)
	case physical.TypeBytes:
		v, _ := cells.FieldValues[[]byte](data)
		return gojson.Marshal(v)
	case physical.TypeString:
		v, _ := cells.FieldValues[string](data)
		return gojson.Marshal(v)
	}
	return nil, errors.New(errors.ErrorTypeData, "unsupported physical type").
		WithDetail("type", data.Type().String())
}

// convertSlice converts between integer widths. Values are truncated,
// not range-checked; dataset files are trusted fixtures.
func convertSlice[F, T uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64](src []F) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = T(v)
	}
	return out
}
