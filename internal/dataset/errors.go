package dataset

import "fmt"

// ShapeError reports an input array whose dtype or dimensions violate the
// documented contract of an operation.
type ShapeError struct {
	Op      string // Operation that rejected the input (e.g., "NormalizeImages")
	Details string // What the contract requires and what was seen
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape error: %s", e.Op, e.Details)
}

// CategoryRangeError reports a label value outside [0, NumClasses).
// This indicates a data-integrity problem upstream; it is never retried.
type CategoryRangeError struct {
	Index      int   // Position of the offending label in the batch
	Label      int32 // The offending value
	NumClasses int   // The configured number of categories
}

// Error implements the error interface.
func (e *CategoryRangeError) Error() string {
	return fmt.Sprintf("label %d at index %d out of range [0, %d)", e.Label, e.Index, e.NumClasses)
}
