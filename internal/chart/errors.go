package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownYear indicates a lookup for a year the dataset has no frame for.
	ErrUnknownYear = errors.New("chart: no frame for year")

	// ErrRadiusDomain indicates an unsupported radius domain mode.
	ErrRadiusDomain = errors.New("chart: unknown radius domain mode")
)

// FrameError wraps an error with the year of the frame being rendered.
type FrameError struct {
	Year    int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Year, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
