package array

import (
	"fmt"
	"unsafe"
)

// Elem is a constraint for supported element types.
// It uses Go generics to ensure compile-time type safety.
type Elem interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Elem](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	default:
		panic("unsupported type")
	}
}

// FromSlice creates an Array from a Go slice, copying the data.
//
// Example:
//
//	labels, err := array.FromSlice([]int32{0, 4, 9}, array.Shape{3})
func FromSlice[T Elem](data []T, shape Shape) (*Array, error) {
	var dummy T
	dtype := inferDataType(dummy)

	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (want %d elements)",
			len(data), shape, shape.NumElements())
	}

	a, err := New(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*dtype.Size())
		copy(a.data, src)
	}
	return a, nil
}
