package container

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/batchprep-ml/batchprep/internal/array"
)

// Reader reads arrays from a .bpak container file.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	dataOffset int64    // Offset where array data starts
	dataSize   int64    // Size of the data section per the fixed header
	checksum   [32]byte // SHA-256 of the data section
	closed     bool
}

// Open opens a .bpak file for reading. The header is parsed and validated and
// the data-section checksum is verified before any array can be read; a file
// that fails any check is rejected as corrupt.
func Open(path string) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := &Reader{file: file}
	if err := r.parseHeader(); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return r, nil
}

// parseHeader reads and verifies the fixed header, JSON header, and checksum.
func (r *Reader) parseHeader() error {
	fixedHeader := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixedHeader); err != nil {
		return fmt.Errorf("failed to read fixed header: %w", err)
	}

	if string(fixedHeader[0:4]) != MagicBytes {
		return ErrInvalidMagic
	}

	version := binary.LittleEndian.Uint32(fixedHeader[4:8])
	if version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	r.flags = binary.LittleEndian.Uint32(fixedHeader[8:12])
	headerSize := binary.LittleEndian.Uint64(fixedHeader[16:24])
	dataSize := binary.LittleEndian.Uint64(fixedHeader[24:32])
	copy(r.checksum[:], fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header JSON: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize, conversion is safe
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	r.dataOffset = currentPos + padding
	r.dataSize = int64(dataSize)

	// The declared data section must actually fit in the file.
	fileInfo, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if r.dataOffset+r.dataSize > fileInfo.Size() {
		return &ValidationError{
			Type: "out_of_bounds",
			Details: fmt.Sprintf("data section [%d-%d] extends beyond file size %d",
				r.dataOffset, r.dataOffset+r.dataSize, fileInfo.Size()),
		}
	}

	if err := ValidateHeader(&r.header, r.dataSize); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return r.verifyChecksum()
}

// verifyChecksum hashes the data section and compares against the stored
// checksum without loading the section into memory at once.
func (r *Reader) verifyChecksum() error {
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to array data: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, io.LimitReader(r.file, r.dataSize)); err != nil {
		return fmt.Errorf("failed to read array data for checksum: %w", err)
	}
	var computed [ChecksumSize]byte
	copy(computed[:], h.Sum(nil))

	if computed != r.checksum {
		return ErrChecksumMismatch
	}
	return nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// ArrayNames returns the names of all arrays in the file, in header order.
func (r *Reader) ArrayNames() []string {
	names := make([]string, len(r.header.Arrays))
	for i, meta := range r.header.Arrays {
		names[i] = meta.Name
	}
	return names
}

// ArrayInfo returns the metadata for a named array.
// Returns ErrArrayNotFound if no array has that name.
func (r *Reader) ArrayInfo(name string) (*ArrayMeta, error) {
	for _, meta := range r.header.Arrays {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrArrayNotFound, name)
}

// ReadArray reads a named array from the file, bit-exact as written.
func (r *Reader) ReadArray(name string) (*array.Array, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	meta, err := r.ArrayInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, ok := stringToDtype(meta.DType)
	if !ok {
		return nil, fmt.Errorf("array %q: unsupported dtype %q", name, meta.DType)
	}

	if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to array %q: %w", name, err)
	}
	data := make([]byte, meta.Size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("failed to read array %q: %w", name, err)
	}

	a, err := array.FromBytes(data, array.Shape(meta.Shape), dtype)
	if err != nil {
		return nil, fmt.Errorf("array %q: %w", name, err)
	}
	return a, nil
}

// ReadAll reads every array in the file into a name-keyed map.
func (r *Reader) ReadAll() (map[string]*array.Array, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	arrays := make(map[string]*array.Array, len(r.header.Arrays))
	for _, meta := range r.header.Arrays {
		a, err := r.ReadArray(meta.Name)
		if err != nil {
			return nil, err
		}
		arrays[meta.Name] = a
	}
	return arrays, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Load reconstructs the named arrays from the container file at path.
// Returns ErrArrayNotFound (wrapped) if any requested name is absent.
// The file handle is released on all exit paths.
func Load(path string, names []string) (map[string]*array.Array, error) {
	reader, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close() //nolint:errcheck // Read-only handle

	arrays := make(map[string]*array.Array, len(names))
	for _, name := range names {
		a, err := reader.ReadArray(name)
		if err != nil {
			return nil, err
		}
		arrays[name] = a
	}
	return arrays, nil
}
