package dataset

import (
	"fmt"

	"github.com/batchprep-ml/batchprep/internal/array"
)

// Canonical container names for a prepared train/test pair.
const (
	TrainImagesName = "x_train"
	TrainLabelsName = "y_train"
	TestImagesName  = "x_test"
	TestLabelsName  = "y_test"
)

// Config is the configuration surface of the normalizer.
type Config struct {
	Precision  Precision // Floating-point width of normalized outputs
	NumClasses int       // Number of categories; 0 means NumClasses (10)
}

// withDefaults fills in zero-value fields.
func (c Config) withDefaults() Config {
	if c.NumClasses == 0 {
		c.NumClasses = NumClasses
	}
	return c
}

// Split is a raw dataset partition as delivered by the dataset source:
// uint8 images shaped (N, rows, cols, 3) and int32 labels shaped (N) or (N, 1).
type Split struct {
	Images *array.Array
	Labels *array.Array
}

// Len returns the number of examples in the split.
func (s Split) Len() int {
	if s.Images == nil {
		return 0
	}
	return s.Images.Shape()[0]
}

// Prepared is a training-ready partition: normalized images and one-hot labels.
type Prepared struct {
	Images *array.Array // (N, rows, cols, 3), float32 or float64, values in [0, 1]
	Labels *array.Array // (N, numClasses), same dtype as Images
}

// Prepare converts a raw split into its training-ready form.
// Image and label counts must agree.
func Prepare(raw Split, cfg Config) (Prepared, error) {
	cfg = cfg.withDefaults()

	images, err := NormalizeImages(raw.Images, cfg.Precision)
	if err != nil {
		return Prepared{}, err
	}

	labels, err := OneHotEncode(raw.Labels, cfg.NumClasses, cfg.Precision)
	if err != nil {
		return Prepared{}, err
	}

	if images.Shape()[0] != labels.Shape()[0] {
		return Prepared{}, &ShapeError{
			Op: "Prepare",
			Details: fmt.Sprintf("image count %d does not match label count %d",
				images.Shape()[0], labels.Shape()[0]),
		}
	}

	return Prepared{Images: images, Labels: labels}, nil
}

// NamedArrays returns the train/test pair under the canonical container names.
func NamedArrays(train, test Prepared) map[string]*array.Array {
	return map[string]*array.Array{
		TrainImagesName: train.Images,
		TrainLabelsName: train.Labels,
		TestImagesName:  test.Images,
		TestLabelsName:  test.Labels,
	}
}
