package carousel

import "errors"

var (
	// ErrConfig is returned for invalid construction parameters or an
	// unknown direction.
	ErrConfig = errors.New("carousel: invalid configuration")

	// ErrNotInitialized is returned by methods called on a Carousel that was
	// not built with New.
	ErrNotInitialized = errors.New("carousel: not initialized")

	// ErrClosed is returned by methods called after Close.
	ErrClosed = errors.New("carousel: closed")
)
