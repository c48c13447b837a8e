// Package cifar reads the CIFAR-10 binary batch format into raw image and
// label arrays ready for the dataset normalizer.
package cifar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/batchprep-ml/batchprep/internal/array"
	"github.com/batchprep-ml/batchprep/internal/dataset"
)

// CIFAR-10 binary batch layout.
//
// Each record is 3073 bytes: 1 label byte (0-9) followed by 3072 pixel bytes
// stored as three 1024-byte planes (1024 red, 1024 green, 1024 blue), each
// plane in row-major order.
const (
	ImageSize      = 32
	Channels       = dataset.Channels
	pixelsPerPlane = ImageSize * ImageSize
	bytesPerImage  = pixelsPerPlane * Channels
	recordSize     = 1 + bytesPerImage
)

// Standard batch file names as shipped in cifar-10-batches-bin.
var (
	TrainFiles = []string{
		"data_batch_1.bin",
		"data_batch_2.bin",
		"data_batch_3.bin",
		"data_batch_4.bin",
		"data_batch_5.bin",
	}
	TestFile = "test_batch.bin"
)

// ReadBatchFile reads one CIFAR-10 binary batch file.
//
// Returns images as a uint8 array shaped (N, 32, 32, 3) with interleaved RGB
// channels and labels as an int32 array shaped (N). A file whose size is not
// a whole number of records is rejected.
func ReadBatchFile(path string) (*array.Array, *array.Array, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat batch file: %w", err)
	}
	if info.Size()%recordSize != 0 {
		return nil, nil, fmt.Errorf("%s: size %d is not a multiple of record size %d (truncated file?)",
			path, info.Size(), recordSize)
	}
	numRecords := int(info.Size() / recordSize)

	return decodeRecords(file, numRecords, path)
}

// decodeRecords reads numRecords records and de-interleaves the planar RGB
// pixel planes into NHWC order.
func decodeRecords(r io.Reader, numRecords int, path string) (*array.Array, *array.Array, error) {
	images, err := array.New(array.Shape{numRecords, ImageSize, ImageSize, Channels}, array.Uint8)
	if err != nil {
		return nil, nil, err
	}
	labels, err := array.New(array.Shape{numRecords}, array.Int32)
	if err != nil {
		return nil, nil, err
	}

	pixels := images.AsUint8()
	labelData := labels.AsInt32()
	record := make([]byte, recordSize)

	for i := 0; i < numRecords; i++ {
		if _, err := io.ReadFull(r, record); err != nil {
			return nil, nil, fmt.Errorf("failed to read record %d of %s: %w", i, path, err)
		}

		label := record[0]
		if label >= dataset.NumClasses {
			return nil, nil, fmt.Errorf("record %d of %s: label %d out of range [0, %d)",
				i, path, label, dataset.NumClasses)
		}
		labelData[i] = int32(label)

		planes := record[1:]
		base := i * bytesPerImage
		for p := 0; p < pixelsPerPlane; p++ {
			pixels[base+p*Channels+0] = planes[p]                  // R
			pixels[base+p*Channels+1] = planes[pixelsPerPlane+p]   // G
			pixels[base+p*Channels+2] = planes[2*pixelsPerPlane+p] // B
		}
	}

	return images, labels, nil
}

// LoadSplit loads the train or test split from a cifar-10-batches-bin
// directory, concatenating the five training batches for the train split.
func LoadSplit(dataDir string, train bool) (dataset.Split, error) {
	files := []string{TestFile}
	if train {
		files = TrainFiles
	}

	var imageParts, labelParts []*array.Array
	total := 0
	for _, name := range files {
		images, labels, err := ReadBatchFile(filepath.Join(dataDir, name))
		if err != nil {
			return dataset.Split{}, err
		}
		imageParts = append(imageParts, images)
		labelParts = append(labelParts, labels)
		total += labels.NumElements()
	}

	if len(imageParts) == 1 {
		return dataset.Split{Images: imageParts[0], Labels: labelParts[0]}, nil
	}

	images, err := array.New(array.Shape{total, ImageSize, ImageSize, Channels}, array.Uint8)
	if err != nil {
		return dataset.Split{}, err
	}
	labels, err := array.New(array.Shape{total}, array.Int32)
	if err != nil {
		return dataset.Split{}, err
	}

	pixelOff, labelOff := 0, 0
	for i := range imageParts {
		pixelOff += copy(images.AsUint8()[pixelOff:], imageParts[i].AsUint8())
		labelOff += copy(labels.AsInt32()[labelOff:], labelParts[i].AsInt32())
	}

	return dataset.Split{Images: images, Labels: labels}, nil
}

// ErrMissingData reports a data directory without the expected batch files.
var ErrMissingData = errors.New("CIFAR-10 batch files not found")

// CheckDataDir verifies that dataDir contains the expected batch files.
func CheckDataDir(dataDir string) error {
	for _, name := range append(append([]string{}, TrainFiles...), TestFile) {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingData, filepath.Join(dataDir, name))
		}
	}
	return nil
}
