package dataset

// NumClasses is the number of categories in CIFAR-10.
const NumClasses = 10

// ClassNames maps a CIFAR-10 label id to its human-readable name.
// The order is fixed by the dataset definition and must not change.
var ClassNames = [NumClasses]string{
	"airplane",
	"automobile",
	"bird",
	"cat",
	"deer",
	"dog",
	"frog",
	"horse",
	"ship",
	"truck",
}

// ClassName returns the human-readable name for a label id,
// or "unknown" if the id is out of range.
func ClassName(id int) string {
	if id < 0 || id >= NumClasses {
		return "unknown"
	}
	return ClassNames[id]
}
