// Copyright 2025 Batchprep Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package container provides the public API for the .bpak container format:
// a single file holding multiple named, typed, shaped arrays.
//
// Saves are atomic and loads are verified against a SHA-256 checksum, so a
// readable container always round-trips its arrays bit-exactly.
//
// Example:
//
//	if err := container.Save("cifar10.bpak", arrays, nil); err != nil {
//	    log.Fatal(err)
//	}
//	loaded, err := container.Load("cifar10.bpak", []string{"x_train", "y_train"})
package container

import (
	"github.com/batchprep-ml/batchprep/internal/array"
	"github.com/batchprep-ml/batchprep/internal/container"
)

// Common errors.
var (
	ErrArrayNotFound      = container.ErrArrayNotFound
	ErrChecksumMismatch   = container.ErrChecksumMismatch
	ErrInvalidMagic       = container.ErrInvalidMagic
	ErrUnsupportedVersion = container.ErrUnsupportedVersion
)

// Header represents the JSON header in a .bpak file.
type Header = container.Header

// ArrayMeta describes one array in a .bpak file.
type ArrayMeta = container.ArrayMeta

// ValidationError provides detailed information about header validation failures.
type ValidationError = container.ValidationError

// Writer writes a .bpak container file atomically.
type Writer = container.Writer

// Reader reads arrays from a .bpak container file.
type Reader = container.Reader

// NewWriter creates a new .bpak writer targeting path.
func NewWriter(path string) (*Writer, error) {
	return container.NewWriter(path)
}

// Open opens a .bpak file for reading, validating header and checksum.
func Open(path string) (*Reader, error) {
	return container.Open(path)
}

// Save persists the named arrays to a single container file at path.
// The write is atomic: on any failure the destination path is left untouched.
func Save(path string, arrays map[string]*array.Array, metadata map[string]string) error {
	return container.Save(path, arrays, metadata)
}

// Load reconstructs the named arrays from the container file at path.
func Load(path string, names []string) (map[string]*array.Array, error) {
	return container.Load(path, names)
}
