// Copyright 2025 Batchprep Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides the public API of the dataset normalizer:
// pixel rescaling to [0, 1], one-hot label encoding and decoding, and the
// CIFAR-10 category table.
//
// Example:
//
//	images, err := dataset.NormalizeImages(raw, dataset.Single)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	labels, err := dataset.OneHotEncode(rawLabels, dataset.NumClasses, dataset.Single)
package dataset

import (
	"github.com/batchprep-ml/batchprep/internal/array"
	"github.com/batchprep-ml/batchprep/internal/dataset"
)

// Precision selects the floating-point width of normalized outputs.
type Precision = dataset.Precision

// Supported precisions.
const (
	Single Precision = dataset.Single
	Double Precision = dataset.Double
)

// NumClasses is the number of categories in CIFAR-10.
const NumClasses = dataset.NumClasses

// Channels is the fixed channel count of an image batch (RGB).
const Channels = dataset.Channels

// ClassNames maps a CIFAR-10 label id to its human-readable name.
var ClassNames = dataset.ClassNames

// ShapeError reports an input array whose dtype or dimensions violate the
// documented contract of an operation.
type ShapeError = dataset.ShapeError

// CategoryRangeError reports a label value outside [0, NumClasses).
type CategoryRangeError = dataset.CategoryRangeError

// Config is the configuration surface of the normalizer.
type Config = dataset.Config

// Split is a raw dataset partition: uint8 images and int32 labels.
type Split = dataset.Split

// Prepared is a training-ready partition: normalized images, one-hot labels.
type Prepared = dataset.Prepared

// ParsePrecision parses "single"/"float32" or "double"/"float64".
func ParsePrecision(s string) (Precision, error) {
	return dataset.ParsePrecision(s)
}

// ClassName returns the human-readable name for a label id.
func ClassName(id int) string {
	return dataset.ClassName(id)
}

// NormalizeImages rescales a uint8 image batch into floating point [0.0, 1.0].
func NormalizeImages(images *array.Array, p Precision) (*array.Array, error) {
	return dataset.NormalizeImages(images, p)
}

// OneHotEncode converts a label batch into a (N, numClasses) one-hot array.
func OneHotEncode(labels *array.Array, numClasses int, p Precision) (*array.Array, error) {
	return dataset.OneHotEncode(labels, numClasses, p)
}

// DecodeOneHot inverts OneHotEncode via first-maximum row decoding.
func DecodeOneHot(encoded *array.Array) (*array.Array, error) {
	return dataset.DecodeOneHot(encoded)
}

// Prepare converts a raw split into its training-ready form.
func Prepare(raw Split, cfg Config) (Prepared, error) {
	return dataset.Prepare(raw, cfg)
}

// NamedArrays returns the train/test pair under the canonical container names.
func NamedArrays(train, test Prepared) map[string]*array.Array {
	return dataset.NamedArrays(train, test)
}
