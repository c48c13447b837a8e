// Copyright 2025 Batchprep Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides the public API for the dense array type used
// throughout batchprep.
//
// An Array couples a contiguous row-major byte buffer with a Shape and a
// runtime DataType. Typed views (AsFloat32, AsUint8, ...) expose the buffer
// without copying.
//
// Example:
//
//	labels, err := array.FromSlice([]int32{0, 4, 9}, array.Shape{3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(labels.Shape(), labels.DType())
package array

import (
	"github.com/batchprep-ml/batchprep/internal/array"
)

// Type aliases for public API

// DataType represents the underlying data type of an array.
type DataType = array.DataType

// Data type constants.
const (
	Float32 DataType = array.Float32
	Float64 DataType = array.Float64
	Int32   DataType = array.Int32
	Int64   DataType = array.Int64
	Uint8   DataType = array.Uint8
	Bool    DataType = array.Bool
)

// Shape represents the dimensions of an array.
// Example: Shape{50000, 32, 32, 3} is a batch of 50000 RGB images.
type Shape = array.Shape

// Array is a dense n-dimensional array with runtime type information.
type Array = array.Array

// Elem is a constraint for supported element types.
type Elem = array.Elem

// New creates a new zero-initialized Array with the given shape and type.
func New(shape Shape, dtype DataType) (*Array, error) {
	return array.New(shape, dtype)
}

// FromSlice creates an Array from a Go slice, copying the data.
func FromSlice[T Elem](data []T, shape Shape) (*Array, error) {
	return array.FromSlice(data, shape)
}

// FromBytes creates an Array backed by a copy of the given raw bytes.
func FromBytes(data []byte, shape Shape, dtype DataType) (*Array, error) {
	return array.FromBytes(data, shape, dtype)
}
