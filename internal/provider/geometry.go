package provider

import (
	"context"
	"errors"

	"github.com/Simplici0/cycletime/internal/geometry"
)

// Failure modes of the external solid-model provider. These are distinct
// from this core's own computational errors so callers can tell a bad file
// apart from a bad estimate.
var (
	ErrMalformedFile     = errors.New("malformed solid model file")
	ErrUnsupportedFormat = errors.New("unsupported solid model format")
)

// GeometryProvider extracts a geometry descriptor from a solid-model file.
// It is a black box to this core: implementations typically shell out to a
// CAD kernel or call a remote service. Timeouts and retries belong to the
// implementation, not to the estimators.
type GeometryProvider interface {
	Describe(ctx context.Context, path string) (geometry.Descriptor, error)
}

// GeometryFunc adapts a plain function to GeometryProvider.
type GeometryFunc func(ctx context.Context, path string) (geometry.Descriptor, error)

// Describe calls f.
func (f GeometryFunc) Describe(ctx context.Context, path string) (geometry.Descriptor, error) {
	return f(ctx, path)
}
