package cifar

import (
	"math/rand"

	"github.com/batchprep-ml/batchprep/internal/array"
	"github.com/batchprep-ml/batchprep/internal/dataset"
)

// Synthetic creates a small synthetic split for demos and tests.
//
// This is NOT realistic CIFAR-10 data: each image is filled with a pattern
// derived from its label so the pipeline can be exercised without the real
// dataset on disk. Labels cycle through 0-9.
func Synthetic(numSamples int, seed int64) dataset.Split {
	images, err := array.New(array.Shape{numSamples, ImageSize, ImageSize, Channels}, array.Uint8)
	if err != nil {
		panic(err) // Shape is valid by construction
	}
	labels, err := array.New(array.Shape{numSamples}, array.Int32)
	if err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // G404: synthetic fixture data
	pixels := images.AsUint8()
	labelData := labels.AsInt32()

	for i := 0; i < numSamples; i++ {
		label := int32(i % dataset.NumClasses)
		labelData[i] = label

		base := i * bytesPerImage
		for p := 0; p < pixelsPerPlane; p++ {
			// A bright band whose position tracks the label, plus noise.
			row := p / ImageSize
			v := uint8(rng.Intn(64))
			if row/3 == int(label) {
				v = 200 + uint8(rng.Intn(56))
			}
			pixels[base+p*Channels+0] = v
			pixels[base+p*Channels+1] = v / 2
			pixels[base+p*Channels+2] = 255 - v
		}
	}

	return dataset.Split{Images: images, Labels: labels}
}
