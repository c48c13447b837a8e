package container

import (
	"time"

	"github.com/batchprep-ml/batchprep/internal/array"
)

// Format constants.
const (
	MagicBytes      = "BPAK"
	FormatVersion   = 1
	HeaderAlignment = 64   // Align array data to 64 bytes
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
)

// Flags for the .bpak format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Header represents the JSON header in a .bpak file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .bpak format
	ToolVersion   string            `json:"tool_version"`   // Version of batchprep that created this file
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Arrays        []ArrayMeta       `json:"arrays"`         // Array metadata, sorted by name
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
}

// ArrayMeta describes one array in the .bpak file.
type ArrayMeta struct {
	Name   string `json:"name"`   // Array name (e.g., "x_train")
	DType  string `json:"dtype"`  // Data type (e.g., "float32")
	Shape  []int  `json:"shape"`  // Array shape
	Offset int64  `json:"offset"` // Offset in bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// Data type string constants for serialization.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
	DTypeInt32   = "int32"
	DTypeInt64   = "int64"
	DTypeUint8   = "uint8"
	DTypeBool    = "bool"
)

// dtypeToString converts array.DataType to its string representation.
func dtypeToString(dt array.DataType) string {
	switch dt {
	case array.Float32:
		return DTypeFloat32
	case array.Float64:
		return DTypeFloat64
	case array.Int32:
		return DTypeInt32
	case array.Int64:
		return DTypeInt64
	case array.Uint8:
		return DTypeUint8
	case array.Bool:
		return DTypeBool
	default:
		return "unknown"
	}
}

// stringToDtype converts a string representation to array.DataType.
func stringToDtype(s string) (array.DataType, bool) {
	switch s {
	case DTypeFloat32:
		return array.Float32, true
	case DTypeFloat64:
		return array.Float64, true
	case DTypeInt32:
		return array.Int32, true
	case DTypeInt64:
		return array.Int64, true
	case DTypeUint8:
		return array.Uint8, true
	case DTypeBool:
		return array.Bool, true
	default:
		return 0, false
	}
}
