package container

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/batchprep-ml/batchprep/internal/array"
)

const toolVersion = "0.1.0" // Current batchprep version

// Writer writes a .bpak container file atomically.
//
// Data goes to a temporary sibling file first; Commit syncs it and renames it
// over the destination path. If Commit is never reached, Close removes the
// temporary file so a failed save leaves nothing readable at the destination.
type Writer struct {
	file      *os.File
	path      string
	tmpPath   string
	committed bool
	closed    bool
}

// NewWriter creates a new .bpak writer targeting path.
func NewWriter(path string) (*Writer, error) {
	tmpPath := path + ".tmp"
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	return &Writer{
		file:    file,
		path:    path,
		tmpPath: tmpPath,
	}, nil
}

// WriteArrays writes the named arrays and optional metadata to the container.
// Arrays are laid out in sorted-name order so identical inputs produce
// identical files. Must be followed by Commit to make the file visible.
func (w *Writer) WriteArrays(arrays map[string]*array.Array, metadata map[string]string) error {
	if w.closed {
		return ErrWriterClosed
	}

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		if err := ValidateArrayName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion: FormatVersion,
		ToolVersion:   toolVersion,
		CreatedAt:     time.Now().UTC(),
		Arrays:        make([]ArrayMeta, 0, len(arrays)),
		Metadata:      metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	var currentOffset int64
	for _, name := range names {
		a := arrays[name]
		size := int64(a.ByteSize())

		header.Arrays = append(header.Arrays, ArrayMeta{
			Name:   name,
			DType:  dtypeToString(a.DType()),
			Shape:  []int(a.Shape()),
			Offset: currentOffset,
			Size:   size,
		})

		currentOffset += size
	}

	// Checksum covers the data section exactly as laid out on disk.
	dataBuf := make([]byte, 0, currentOffset)
	for _, name := range names {
		dataBuf = append(dataBuf, arrays[name].Data()...)
	}
	checksum := sha256.Sum256(dataBuf)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	headerSize := uint64(len(headerJSON))
	dataSize := uint64(len(dataBuf))

	fixedHeader := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes "BPAK"
	copy(fixedHeader[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x0C-0x0F: Reserved (0)

	// 0x10-0x17: Header size
	binary.LittleEndian.PutUint64(fixedHeader[16:24], headerSize)

	// 0x18-0x1F: Data size
	binary.LittleEndian.PutUint64(fixedHeader[24:32], dataSize)

	// 0x20-0x3F: SHA-256 checksum
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.file.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}

	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	// Pad so the data section starts on a 64-byte boundary.
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize, conversion is safe
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		paddingBytes := make([]byte, padding)
		if _, err := w.file.Write(paddingBytes); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.file.Write(dataBuf); err != nil {
		return fmt.Errorf("failed to write array data: %w", err)
	}

	return nil
}

// Commit syncs the temporary file and renames it over the destination path.
// After Commit, Close is a no-op.
func (w *Writer) Commit() error {
	if w.closed {
		return ErrWriterClosed
	}
	if w.committed {
		return nil
	}

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", w.tmpPath, err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", w.tmpPath, err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		_ = os.Remove(w.tmpPath)
		w.closed = true
		return fmt.Errorf("failed to rename %s to %s: %w", w.tmpPath, w.path, err)
	}

	w.committed = true
	w.closed = true
	return nil
}

// Close releases the writer. If Commit was not called, the temporary file is
// removed and nothing appears at the destination path.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	closeErr := w.file.Close()
	if removeErr := os.Remove(w.tmpPath); removeErr != nil && closeErr == nil {
		return removeErr
	}
	return closeErr
}

// Save persists the named arrays to a single container file at path.
// The write is atomic: on any failure the destination path is left untouched.
func Save(path string, arrays map[string]*array.Array, metadata map[string]string) error {
	writer, err := NewWriter(path)
	if err != nil {
		return err
	}
	defer writer.Close() //nolint:errcheck // No-op after Commit; removes the temp file on failure

	if err := writer.WriteArrays(arrays, metadata); err != nil {
		return err
	}
	return writer.Commit()
}
