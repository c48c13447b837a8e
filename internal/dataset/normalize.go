// Package dataset converts raw labeled image batches into a training-ready
// representation: pixel intensities rescaled from uint8 [0, 255] to floating
// point [0.0, 1.0] and integer labels one-hot encoded. All operations are
// deterministic and allocate new arrays; inputs are never modified.
package dataset

import (
	"fmt"

	"github.com/batchprep-ml/batchprep/internal/array"
)

// Channels is the fixed channel count of an image batch (RGB).
const Channels = 3

// Precision selects the floating-point width of normalized outputs.
type Precision int

// Supported precisions. Single precision is the default for throughput.
const (
	Single Precision = iota // float32
	Double                  // float64
)

// DType returns the array data type for the precision.
func (p Precision) DType() array.DataType {
	if p == Double {
		return array.Float64
	}
	return array.Float32
}

// String returns a human-readable precision name.
func (p Precision) String() string {
	if p == Double {
		return "double"
	}
	return "single"
}

// ParsePrecision parses "single"/"float32" or "double"/"float64".
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "single", "float32":
		return Single, nil
	case "double", "float64":
		return Double, nil
	default:
		return Single, fmt.Errorf("unknown precision %q (want single or double)", s)
	}
}

// NormalizeImages rescales a uint8 image batch into floating point [0.0, 1.0]
// by dividing each pixel by 255, preserving shape and element order exactly.
//
// The input must be a rank-4 Uint8 array shaped (batch, rows, cols, 3) with
// RGB channel order. Anything else fails with *ShapeError.
func NormalizeImages(images *array.Array, p Precision) (*array.Array, error) {
	if images.DType() != array.Uint8 {
		return nil, &ShapeError{
			Op:      "NormalizeImages",
			Details: fmt.Sprintf("want dtype uint8, got %s", images.DType()),
		}
	}
	shape := images.Shape()
	if shape.Rank() != 4 {
		return nil, &ShapeError{
			Op:      "NormalizeImages",
			Details: fmt.Sprintf("want rank-4 (batch, rows, cols, channels), got shape %v", shape),
		}
	}
	if shape[3] != Channels {
		return nil, &ShapeError{
			Op:      "NormalizeImages",
			Details: fmt.Sprintf("want %d channels, got %d (shape %v)", Channels, shape[3], shape),
		}
	}

	out, err := array.New(shape, p.DType())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate output: %w", err)
	}

	pixels := images.AsUint8()
	switch p {
	case Double:
		dst := out.AsFloat64()
		for i, v := range pixels {
			dst[i] = float64(v) / 255.0
		}
	default:
		dst := out.AsFloat32()
		for i, v := range pixels {
			dst[i] = float32(v) / 255.0
		}
	}

	return out, nil
}
