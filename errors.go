package rawunravel

import "errors"

var (
	// ErrInvalidDimensions is returned when width or height is below the
	// minimum usable size for an engine.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrMissingInput is returned when a required mosaic plane or output
	// buffer is absent or too small.
	ErrMissingInput = errors.New("missing input")

	// ErrUnsupportedGeometry is returned when the sensor-type tag does not
	// match any known CFA shape, or a CFA pattern is malformed.
	ErrUnsupportedGeometry = errors.New("unsupported sensor geometry")

	// ErrContainerRead is returned when mosaic data cannot be read from a
	// container carrier. Failures from external readers are wrapped with
	// this sentinel and surfaced unchanged by the pipeline.
	ErrContainerRead = errors.New("container read failure")
)
