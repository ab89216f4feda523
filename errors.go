package tempo

import "errors"

// Sentinel errors for the tempo package.
// Use errors.Is to check: errors.Is(err, tempo.ErrInvalidWeights)
var (
	ErrInvalidPriority = errors.New("tempo: invalid priority")
	ErrInvalidStatus   = errors.New("tempo: invalid status")
	ErrInvalidResponse = errors.New("tempo: invalid response")
	ErrInvalidWeights  = errors.New("tempo: invalid weights")
)
