package dataset

import (
	"fmt"

	"github.com/batchprep-ml/batchprep/internal/array"
)

// labelValues validates a label batch and returns its values as a flat slice.
// Accepted shapes are (N) and (N, 1), dtype Int32.
func labelValues(op string, labels *array.Array) ([]int32, error) {
	if labels.DType() != array.Int32 {
		return nil, &ShapeError{
			Op:      op,
			Details: fmt.Sprintf("want dtype int32, got %s", labels.DType()),
		}
	}
	shape := labels.Shape()
	switch {
	case shape.Rank() == 1:
	case shape.Rank() == 2 && shape[1] == 1:
	default:
		return nil, &ShapeError{
			Op:      op,
			Details: fmt.Sprintf("want shape (N) or (N, 1), got %v", shape),
		}
	}
	return labels.AsInt32(), nil
}

// OneHotEncode converts a label batch into a (N, numClasses) one-hot array.
// Row i holds a 1 at column labels[i] and 0 elsewhere. The output dtype
// follows the precision config; 0 and 1 are exact in either float width.
//
// Every label must satisfy 0 <= v < numClasses; the first violation fails
// with *CategoryRangeError.
func OneHotEncode(labels *array.Array, numClasses int, p Precision) (*array.Array, error) {
	if numClasses <= 0 {
		return nil, &ShapeError{
			Op:      "OneHotEncode",
			Details: fmt.Sprintf("numClasses must be positive, got %d", numClasses),
		}
	}
	values, err := labelValues("OneHotEncode", labels)
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if v < 0 || int(v) >= numClasses {
			return nil, &CategoryRangeError{Index: i, Label: v, NumClasses: numClasses}
		}
	}

	out, err := array.New(array.Shape{len(values), numClasses}, p.DType())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate output: %w", err)
	}

	switch p {
	case Double:
		dst := out.AsFloat64()
		for i, v := range values {
			dst[i*numClasses+int(v)] = 1
		}
	default:
		dst := out.AsFloat32()
		for i, v := range values {
			dst[i*numClasses+int(v)] = 1
		}
	}

	return out, nil
}

// DecodeOneHot inverts OneHotEncode: for each row it returns the index of the
// first maximum value as an Int32 array of shape (N).
//
// Ties are broken by the lowest index. One-hot rows produced by OneHotEncode
// never tie, but the rule is fixed so that decode is fully deterministic on
// arbitrary input.
func DecodeOneHot(encoded *array.Array) (*array.Array, error) {
	shape := encoded.Shape()
	if shape.Rank() != 2 {
		return nil, &ShapeError{
			Op:      "DecodeOneHot",
			Details: fmt.Sprintf("want rank-2 (N, numClasses), got shape %v", shape),
		}
	}
	rows, cols := shape[0], shape[1]
	if cols == 0 {
		return nil, &ShapeError{
			Op:      "DecodeOneHot",
			Details: "numClasses dimension must be non-zero",
		}
	}

	argmax := func(row func(int) float64) int32 {
		best := 0
		bestVal := row(0)
		for j := 1; j < cols; j++ {
			if v := row(j); v > bestVal { // strict: earlier index wins ties
				best, bestVal = j, v
			}
		}
		return int32(best)
	}

	out, err := array.New(array.Shape{rows}, array.Int32)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate output: %w", err)
	}
	dst := out.AsInt32()

	switch encoded.DType() {
	case array.Float32:
		data := encoded.AsFloat32()
		for i := 0; i < rows; i++ {
			base := i * cols
			dst[i] = argmax(func(j int) float64 { return float64(data[base+j]) })
		}
	case array.Float64:
		data := encoded.AsFloat64()
		for i := 0; i < rows; i++ {
			base := i * cols
			dst[i] = argmax(func(j int) float64 { return data[base+j] })
		}
	default:
		return nil, &ShapeError{
			Op:      "DecodeOneHot",
			Details: fmt.Sprintf("want dtype float32 or float64, got %s", encoded.DType()),
		}
	}

	return out, nil
}
