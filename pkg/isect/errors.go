package isect

import "github.com/pkg/errors"

// ErrInvalidInput is returned when a coordinate slice is too short or a
// triangle soup's length is not a multiple of 9. Callers match it with
// errors.Is.
var ErrInvalidInput = errors.New("invalid input")
