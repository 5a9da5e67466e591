//go:build !manifold

// Package manifold implements kernel.Kernel on the Manifold C library.
// Without the "manifold" build tag this stub is compiled and New fails.
//
// Build with: go build -tags=manifold
package manifold

import (
	"errors"

	"github.com/chazu/trisect/pkg/kernel"
)

// ErrUnavailable is returned by New when built without manifold support.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// New returns ErrUnavailable.
func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
