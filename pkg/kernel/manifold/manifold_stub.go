//go:build !manifold

// Package manifold binds the Manifold mesh library as a crystal kernel.
// Without the "manifold" build tag only this stub is compiled and New
// reports ErrUnavailable.
package manifold

import (
	"errors"

	"github.com/chazu/druse/pkg/kernel"
)

// ErrUnavailable is returned by New in builds without the manifold tag.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
