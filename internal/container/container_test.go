package container

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/batchprep-ml/batchprep/internal/array"
)

// makeFloat32 builds a float32 array filled with deterministic values.
func makeFloat32(t *testing.T, shape array.Shape, seed int64) *array.Array {
	t.Helper()
	a, err := array.New(shape, array.Float32)
	if err != nil {
		t.Fatalf("Failed to create array: %v", err)
	}
	rng := rand.New(rand.NewSource(seed))
	data := a.AsFloat32()
	for i := range data {
		data[i] = rng.Float32()
	}
	return a
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		shape array.Shape
	}{
		{"empty batch", array.Shape{0, 32, 32, 3}},
		{"single example", array.Shape{1, 32, 32, 3}},
		{"multi-thousand examples", array.Shape{5000, 8, 8, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.bpak")

			images := makeFloat32(t, tc.shape, 1)
			labels, err := array.New(array.Shape{tc.shape[0], 10}, array.Float32)
			if err != nil {
				t.Fatalf("Failed to create labels: %v", err)
			}

			original := map[string]*array.Array{
				"x_train": images,
				"y_train": labels,
			}

			if err := Save(path, original, nil); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path, []string{"x_train", "y_train"})
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			for name, want := range original {
				got, ok := loaded[name]
				if !ok {
					t.Fatalf("Array %q missing from loaded map", name)
				}
				if !want.Equal(got) {
					t.Errorf("Array %q not bit-identical after round trip", name)
				}
			}
		})
	}
}

func TestRoundTripPreservesDTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtypes.bpak")

	f32 := makeFloat32(t, array.Shape{3, 2}, 2)
	f64, err := array.FromSlice([]float64{0.1, 0.2, 0.3}, array.Shape{3})
	if err != nil {
		t.Fatalf("Failed to create float64 array: %v", err)
	}
	i32, err := array.FromSlice([]int32{0, 4, 9}, array.Shape{3})
	if err != nil {
		t.Fatalf("Failed to create int32 array: %v", err)
	}
	u8, err := array.FromSlice([]uint8{0, 128, 255}, array.Shape{3})
	if err != nil {
		t.Fatalf("Failed to create uint8 array: %v", err)
	}

	original := map[string]*array.Array{
		"f32": f32, "f64": f64, "i32": i32, "u8": u8,
	}

	if err := Save(path, original, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	loaded, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	for name, want := range original {
		got := loaded[name]
		if got == nil {
			t.Fatalf("Array %q missing", name)
		}
		if got.DType() != want.DType() {
			t.Errorf("Array %q dtype changed: got %s, want %s", name, got.DType(), want.DType())
		}
		if !want.Equal(got) {
			t.Errorf("Array %q not bit-identical", name)
		}
	}
}

func TestSaveMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.bpak")

	arrays := map[string]*array.Array{"x": makeFloat32(t, array.Shape{2, 2}, 3)}
	metadata := map[string]string{"dataset": "cifar10", "precision": "single"}

	if err := Save(path, arrays, metadata); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if got := reader.Metadata()["dataset"]; got != "cifar10" {
		t.Errorf("Expected dataset=cifar10, got %q", got)
	}
	if reader.Header().FormatVersion != FormatVersion {
		t.Errorf("Expected format version %d, got %d", FormatVersion, reader.Header().FormatVersion)
	}
}

func TestArrayNamesSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.bpak")

	arrays := map[string]*array.Array{
		"y_train": makeFloat32(t, array.Shape{1}, 4),
		"x_train": makeFloat32(t, array.Shape{1}, 5),
		"x_test":  makeFloat32(t, array.Shape{1}, 6),
	}

	if err := Save(path, arrays, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	names := reader.ArrayNames()
	want := []string{"x_test", "x_train", "y_train"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Name %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSaveDeterministic(t *testing.T) {
	dir := t.TempDir()
	arrays := map[string]*array.Array{
		"a": makeFloat32(t, array.Shape{4, 4}, 7),
		"b": makeFloat32(t, array.Shape{2, 8}, 8),
	}
	metadata := map[string]string{"k": "v"}

	pathA := filepath.Join(dir, "a.bpak")
	pathB := filepath.Join(dir, "b.bpak")
	if err := Save(pathA, arrays, metadata); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(pathB, arrays, metadata); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	bytesA, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	bytesB, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	// CreatedAt differs between writes, so the JSON headers are not compared.
	// The data sections must be identical, which the stored checksums witness.
	if !bytes.Equal(bytesA[ChecksumOffset:ChecksumOffset+ChecksumSize], bytesB[ChecksumOffset:ChecksumOffset+ChecksumSize]) {
		t.Error("Data checksums differ for identical inputs")
	}
}

func TestLoadMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bpak")

	arrays := map[string]*array.Array{"x_train": makeFloat32(t, array.Shape{2}, 9)}
	if err := Save(path, arrays, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := Load(path, []string{"x_train", "y_train"})
	if !errors.Is(err, ErrArrayNotFound) {
		t.Errorf("Expected ErrArrayNotFound, got %v", err)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bpak")
	if err := os.WriteFile(path, bytes.Repeat([]byte("NOPE"), 32), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("Expected ErrInvalidMagic, got %v", err)
	}
}

func TestOpenRejectsCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.bpak")

	arrays := map[string]*array.Array{"x": makeFloat32(t, array.Shape{64}, 10)}
	if err := Save(path, arrays, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Flip one byte in the data section.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err = Open(path)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got %v", err)
	}
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.bpak")

	arrays := map[string]*array.Array{"x": makeFloat32(t, array.Shape{256}, 11)}
	if err := Save(path, arrays, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(path, raw[:len(raw)-100], 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Expected error opening truncated file")
	}
}

// craftContainer writes a .bpak file with the given array metas and data
// section, laid out exactly like the writer and with a correct data checksum.
// Used to build files whose JSON header lies about the data it describes.
func craftContainer(t *testing.T, path string, metas []ArrayMeta, data []byte) {
	t.Helper()

	headerJSON, err := json.Marshal(Header{
		FormatVersion: FormatVersion,
		ToolVersion:   "test",
		CreatedAt:     time.Now().UTC(),
		Arrays:        metas,
		Metadata:      map[string]string{},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	checksum := sha256.Sum256(data)
	fixedHeader := make([]byte, FixedHeaderSize)
	copy(fixedHeader[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))
	binary.LittleEndian.PutUint64(fixedHeader[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixedHeader[24:32], uint64(len(data)))
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	buf := append([]byte{}, fixedHeader...)
	buf = append(buf, headerJSON...)
	padding := (HeaderAlignment - (len(buf) % HeaderAlignment)) % HeaderAlignment
	buf = append(buf, make([]byte, padding)...)
	buf = append(buf, data...)

	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestOpenRejectsLyingShapes(t *testing.T) {
	dir := t.TempDir()
	data := []byte{1, 2, 3, 4} // one float32

	cases := []struct {
		name string
		meta ArrayMeta
	}{
		{"overflowing dimension", ArrayMeta{Name: "x", DType: DTypeFloat32, Shape: []int{1 << 61}, Offset: 0, Size: 4}},
		{"negative dimension", ArrayMeta{Name: "x", DType: DTypeFloat32, Shape: []int{-1}, Offset: 0, Size: 4}},
		{"size mismatch", ArrayMeta{Name: "x", DType: DTypeFloat32, Shape: []int{2, 2}, Offset: 0, Size: 4}},
		{"unsupported dtype", ArrayMeta{Name: "x", DType: "complex128", Shape: []int{1}, Offset: 0, Size: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "lying.bpak")
			craftContainer(t, path, []ArrayMeta{tc.meta}, data)

			_, err := Open(path)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCraftedValidContainerOpens(t *testing.T) {
	// The crafting helper must agree with the real writer layout, otherwise
	// the rejection tests above prove nothing.
	path := filepath.Join(t.TempDir(), "crafted.bpak")
	data := []byte{0, 0, 128, 63} // float32(1.0) little-endian

	craftContainer(t, path, []ArrayMeta{
		{Name: "x", DType: DTypeFloat32, Shape: []int{1}, Offset: 0, Size: 4},
	}, data)

	loaded, err := Load(path, []string{"x"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := loaded["x"].AsFloat32()[0]; got != 1.0 {
		t.Errorf("Expected 1.0, got %v", got)
	}
}

func TestFailedSaveLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "no", "such", "dir", "data.bpak")

	arrays := map[string]*array.Array{"x": makeFloat32(t, array.Shape{2}, 12)}
	if err := Save(path, arrays, nil); err == nil {
		t.Fatal("Expected Save to fail on nonexistent directory")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file at destination, stat returned %v", err)
	}
}

func TestAbortedWriterLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted.bpak")

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	arrays := map[string]*array.Array{"x": makeFloat32(t, array.Shape{2}, 13)}
	if err := writer.WriteArrays(arrays, nil); err != nil {
		t.Fatalf("WriteArrays failed: %v", err)
	}
	// Close without Commit: abort.
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file at destination, stat returned %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty directory after abort, found %d entries", len(entries))
	}
}

func TestSaveRejectsInvalidNames(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"", "../escape", "a/b", "nul\x00byte"} {
		path := filepath.Join(dir, "invalid.bpak")
		arrays := map[string]*array.Array{name: makeFloat32(t, array.Shape{1}, 14)}

		err := Save(path, arrays, nil)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Name %q: expected ValidationError, got %v", name, err)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Errorf("Name %q: expected no file at destination", name)
		}
	}
}

func TestValidateArrayOffsets(t *testing.T) {
	overlapping := []ArrayMeta{
		{Name: "a", Offset: 0, Size: 100},
		{Name: "b", Offset: 50, Size: 100},
	}
	if err := ValidateArrayOffsets(overlapping, 200); err == nil {
		t.Error("Expected overlap error")
	}

	outOfBounds := []ArrayMeta{{Name: "a", Offset: 0, Size: 300}}
	if err := ValidateArrayOffsets(outOfBounds, 200); err == nil {
		t.Error("Expected out-of-bounds error")
	}

	valid := []ArrayMeta{
		{Name: "a", Offset: 0, Size: 100},
		{Name: "b", Offset: 100, Size: 100},
	}
	if err := ValidateArrayOffsets(valid, 200); err != nil {
		t.Errorf("Expected valid offsets, got %v", err)
	}
}
