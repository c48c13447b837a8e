package array

import (
	"bytes"
	"fmt"
	"unsafe"
)

// Array is a dense n-dimensional array with runtime type information.
// Data is stored contiguously in row-major order. Arrays are never mutated
// by the dataset operations; transformations allocate new arrays.
type Array struct {
	data  []byte
	shape Shape
	dtype DataType
}

// New creates a new Array with the given shape and type.
// Memory is allocated and zero-initialized.
func New(shape Shape, dtype DataType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &Array{
		data:  make([]byte, byteSize),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromBytes creates an Array backed by a copy of the given raw bytes.
// The byte length must match shape.NumElements() * dtype.Size().
func FromBytes(data []byte, shape Shape, dtype DataType) (*Array, error) {
	a, err := New(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) != len(a.data) {
		return nil, fmt.Errorf("data length %d does not match shape %v with dtype %s (want %d bytes)",
			len(data), shape, dtype, len(a.data))
	}
	copy(a.data, data)
	return a, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (a *Array) ByteSize() int {
	return len(a.data)
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (a *Array) Data() []byte {
	return a.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the array's dtype is not Float32.
func (a *Array) AsFloat32() []float32 {
	if a.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", a.dtype))
	}
	if len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the array's dtype is not Float64.
func (a *Array) AsFloat64() []float64 {
	if a.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", a.dtype))
	}
	if len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the array's dtype is not Int32.
func (a *Array) AsInt32() []int32 {
	if a.dtype != Int32 {
		panic(fmt.Sprintf("array dtype is %s, not int32", a.dtype))
	}
	if len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the array's dtype is not Int64.
func (a *Array) AsInt64() []int64 {
	if a.dtype != Int64 {
		panic(fmt.Sprintf("array dtype is %s, not int64", a.dtype))
	}
	if len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the array's dtype is not Uint8.
func (a *Array) AsUint8() []uint8 {
	if a.dtype != Uint8 {
		panic(fmt.Sprintf("array dtype is %s, not uint8", a.dtype))
	}
	return a.data // Already []byte = []uint8
}

// Clone creates a deep copy of the array.
func (a *Array) Clone() *Array {
	clone := &Array{
		data:  make([]byte, len(a.data)),
		shape: a.shape.Clone(),
		dtype: a.dtype,
	}
	copy(clone.data, a.data)
	return clone
}

// Equal reports whether two arrays have identical shape, dtype, and contents.
func (a *Array) Equal(other *Array) bool {
	if other == nil {
		return false
	}
	return a.dtype == other.dtype &&
		a.shape.Equal(other.shape) &&
		bytes.Equal(a.data, other.data)
}
