package predict

import "errors"

// Sentinel kinds for prediction errors. ErrModelUnavailable and
// ErrFeatureExtraction are recovered internally by falling back to the
// baseline estimator; they never surface to callers of a valid request.
var (
	ErrEmptySide         = errors.New("empty side")
	ErrModelUnavailable  = errors.New("learned model unavailable")
	ErrFeatureExtraction = errors.New("feature extraction failed")
	ErrInsufficientData  = errors.New("insufficient training data")
)
