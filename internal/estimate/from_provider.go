package estimate

import (
	"context"
	"fmt"

	"github.com/Simplici0/cycletime/internal/constraint"
	"github.com/Simplici0/cycletime/internal/geometry"
	"github.com/Simplici0/cycletime/internal/material"
	"github.com/Simplici0/cycletime/internal/provider"
)

// VolumetricFromFile asks the geometry provider to describe a solid-model
// file and runs the volumetric estimate on the result. Provider failures
// (malformed file, unsupported format) propagate as-is so the caller can
// distinguish them from this core's own geometry validation errors.
func VolumetricFromFile(ctx context.Context, gp provider.GeometryProvider, path string, model geometry.StockModel, m material.Entry, th constraint.Thresholds, p Params) (Result, error) {
	desc, err := gp.Describe(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("describe %s: %w", path, err)
	}
	return Volumetric(desc, model, m, th, p)
}
