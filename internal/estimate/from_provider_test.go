package estimate

import (
	"context"
	"errors"
	"testing"

	"github.com/Simplici0/cycletime/internal/constraint"
	"github.com/Simplici0/cycletime/internal/geometry"
	"github.com/Simplici0/cycletime/internal/provider"
)

func TestVolumetricFromFile(t *testing.T) {
	fake := provider.GeometryFunc(func(ctx context.Context, path string) (geometry.Descriptor, error) {
		if path != "bracket.step" {
			t.Fatalf("unexpected path %q", path)
		}
		return referencePart(), nil
	})

	res, err := VolumetricFromFile(context.Background(), fake, "bracket.step",
		geometry.ModelBBox, aluminum(), constraint.DefaultThresholds(), DefaultParams())
	if err != nil {
		t.Fatalf("VolumetricFromFile returned error: %v", err)
	}
	nearlyEqual(t, "total", res.Breakdown.TotalMin, 6.52)
}

func TestVolumetricFromFilePropagatesProviderError(t *testing.T) {
	fake := provider.GeometryFunc(func(ctx context.Context, path string) (geometry.Descriptor, error) {
		return geometry.Descriptor{}, provider.ErrUnsupportedFormat
	})

	_, err := VolumetricFromFile(context.Background(), fake, "model.xyz",
		geometry.ModelBBox, aluminum(), constraint.DefaultThresholds(), DefaultParams())
	if !errors.Is(err, provider.ErrUnsupportedFormat) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
}
