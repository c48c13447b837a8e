package container

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize = 100 * 1024 * 1024 // 100MB - maximum JSON header size
	MaxArrayCount = 100_000           // Maximum number of arrays in a file
	MaxArrayName  = 4096              // Maximum array name length
)

// ValidateArrayName checks array names for path traversal and malicious patterns.
func ValidateArrayName(name string) error {
	if name == "" {
		return &ValidationError{
			Type:    "invalid_name",
			Details: "empty array name",
		}
	}
	if len(name) > MaxArrayName {
		return &ValidationError{
			Type:    "name_too_long",
			Array:   name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxArrayName),
		}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{
			Type:    "invalid_name",
			Array:   name,
			Details: "contains '..' (path traversal attempt)",
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return &ValidationError{
			Type:    "invalid_name",
			Array:   name,
			Details: "contains path separator (/ or \\)",
		}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Array:   name,
			Details: "contains null byte",
		}
	}
	return nil
}

// ValidateArrayShape checks that a declared shape is consistent with the
// declared dtype and byte size. The element-count product is computed with an
// overflow guard so an absurd dimension in a hostile header cannot wrap around
// and reach an allocation.
func ValidateArrayShape(m ArrayMeta) error {
	dt, ok := stringToDtype(m.DType)
	if !ok {
		return &ValidationError{
			Type:    "invalid_dtype",
			Array:   m.Name,
			Details: fmt.Sprintf("unsupported dtype %q", m.DType),
		}
	}

	elems := int64(1)
	for i, dim := range m.Shape {
		if dim < 0 {
			return &ValidationError{
				Type:    "invalid_shape",
				Array:   m.Name,
				Details: fmt.Sprintf("negative dimension %d at index %d", dim, i),
			}
		}
		if dim > 0 && elems > math.MaxInt64/int64(dim) {
			return &ValidationError{
				Type:    "invalid_shape",
				Array:   m.Name,
				Details: fmt.Sprintf("shape %v overflows the element count", m.Shape),
			}
		}
		elems *= int64(dim)
	}

	elemSize := int64(dt.Size())
	if elems > math.MaxInt64/elemSize {
		return &ValidationError{
			Type:    "invalid_shape",
			Array:   m.Name,
			Details: fmt.Sprintf("shape %v with dtype %s overflows the byte size", m.Shape, m.DType),
		}
	}
	if elems*elemSize != m.Size {
		return &ValidationError{
			Type:  "size_mismatch",
			Array: m.Name,
			Details: fmt.Sprintf("shape %v with dtype %s implies %d bytes, header declares %d",
				m.Shape, m.DType, elems*elemSize, m.Size),
		}
	}

	return nil
}

// ValidateArrayOffsets checks for overlapping array regions and out-of-bounds
// access. Malformed files must be rejected before any data is read.
func ValidateArrayOffsets(arrays []ArrayMeta, dataSize int64) error {
	if len(arrays) > MaxArrayCount {
		return &ValidationError{
			Type:    "too_many_arrays",
			Details: fmt.Sprintf("got %d, max %d", len(arrays), MaxArrayCount),
		}
	}

	// Sort by offset for efficient overlap detection.
	sorted := make([]ArrayMeta, len(arrays))
	copy(sorted, arrays)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, m := range sorted {
		if m.Offset < 0 || m.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Array:   m.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", m.Offset, m.Size),
			}
		}

		if m.Offset+m.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Array:   m.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", m.Offset, m.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if m.Offset+m.Size > next.Offset {
				return &ValidationError{
					Type:   "offset_overlap",
					Array:  m.Name,
					Array2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						m.Offset, m.Offset+m.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateHeader performs full header validation against the data section size.
func ValidateHeader(h *Header, dataSize int64) error {
	if len(h.Arrays) > MaxArrayCount {
		return &ValidationError{
			Type:    "too_many_arrays",
			Details: fmt.Sprintf("got %d, max %d", len(h.Arrays), MaxArrayCount),
		}
	}

	for _, m := range h.Arrays {
		if err := ValidateArrayName(m.Name); err != nil {
			return err
		}
		if err := ValidateArrayShape(m); err != nil {
			return err
		}
	}

	return ValidateArrayOffsets(h.Arrays, dataSize)
}
