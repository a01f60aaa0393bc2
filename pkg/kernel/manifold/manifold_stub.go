//go:build !manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library. Without the "manifold" build tag only this stub is
// compiled and New reports ErrUnavailable.
//
// Build with: go build -tags=manifold
package manifold

import (
	"errors"
	"fmt"

	"github.com/chazu/csgtree/pkg/kernel"
)

// ErrUnavailable is returned by New when the binary was built without
// the Manifold library.
var ErrUnavailable = errors.New("manifold kernel not available")

func New() (kernel.Kernel, error) {
	return nil, fmt.Errorf("%w: build with -tags=manifold", ErrUnavailable)
}
