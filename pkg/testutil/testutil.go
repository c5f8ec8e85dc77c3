// Package testutil provides testing utilities for cellgrid
package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/arrayforge/cellgrid/pkg/cells"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// RandomCells builds a collection with nFields columns of assorted
// physical types and rows records, deterministically from seed. Values
// are drawn from a small domain so that sorts, groups and dedups hit
// plenty of ties.
func RandomCells(t *testing.T, seed int64, nFields, rows int) *cells.Cells {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	fields := make(map[string]cells.FieldData, nFields)
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for i := 0; i < nFields; i++ {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s%d", name, i/len(names))
		}
		fields[name] = randomField(rng, rows)
	}

	c, err := cells.New(fields)
	if err != nil {
		t.Fatalf("building random cells: %v", err)
	}
	return c
}

// FieldNames returns the field names of a collection in map order.
func FieldNames(c *cells.Cells) []string {
	names := make([]string, 0, len(c.Fields()))
	for name := range c.Fields() {
		names = append(names, name)
	}
	return names
}

func randomField(rng *rand.Rand, rows int) cells.FieldData {
	switch rng.Intn(5) {
	case 0:
		values := make([]uint8, rows)
		for i := range values {
			values[i] = uint8(rng.Intn(4))
		}
		return cells.NewUint8Field(values)
	case 1:
		values := make([]int64, rows)
		for i := range values {
			values[i] = int64(rng.Intn(7)) - 3
		}
		return cells.NewInt64Field(values)
	case 2:
		values := make([]float64, rows)
		for i := range values {
			values[i] = float64(rng.Intn(5)) / 2
		}
		return cells.NewFloat64Field(values)
	case 3:
		words := []string{"ash", "birch", "cedar", "doum"}
		values := make([]string, rows)
		for i := range values {
			values[i] = words[rng.Intn(len(words))]
		}
		return cells.NewStringField(values)
	default:
		values := make([]uint32, rows)
		for i := range values {
			values[i] = uint32(rng.Intn(6))
		}
		return cells.NewUint32Field(values)
	}
}
