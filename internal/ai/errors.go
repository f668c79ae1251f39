package ai

import "errors"

// ErrUnavailable is returned when a provider has no usable credentials or
// the upstream capability cannot be reached.
var ErrUnavailable = errors.New("ai provider unavailable")
