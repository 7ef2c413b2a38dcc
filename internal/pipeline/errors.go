package pipeline

import "errors"

var (
	// ErrConfig marks problems with the request itself: missing input or
	// credentials, an unknown provider or tool. Nothing external was called.
	ErrConfig = errors.New("invalid request")

	// ErrAggregation marks a failure of the final synthesis call, the only
	// stage whose failure reaches the caller.
	ErrAggregation = errors.New("aggregation failed")
)
