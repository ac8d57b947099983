package geometry

import (
	"fmt"
	"math"
)

// Descriptor is the geometry summary produced by the external solid-model
// provider. All lengths are in mm, areas in mm², volumes in mm³. It is a
// read-only input: nothing in this module mutates it.
type Descriptor struct {
	PartVolumeMM3      float64    `json:"part_volume_mm3"`
	StockVolumeMM3     float64    `json:"stock_volume_mm3,omitempty"` // optional; derived from the stock model when zero
	SurfaceAreaMM2     float64    `json:"surface_area_mm2"`
	BBoxMM             [3]float64 `json:"bbox_mm"` // X, Y, Z
	MinWallThicknessMM float64    `json:"min_wall_thickness_mm"`
	MaxDepthWidthRatio float64    `json:"max_depth_width_ratio"`
	RotationalSymmetry bool       `json:"rotational_symmetry"`
}

// StockModel selects how the raw stock envelope is derived.
type StockModel string

const (
	ModelBBox     StockModel = "bbox"
	ModelCylinder StockModel = "cylinder"
)

// Error reports degenerate or inconsistent geometry. It is fatal for the
// single estimate that received it; a zero-time result is never produced
// silently.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid geometry: %s %s", e.Field, e.Reason)
}

// Validate checks the descriptor for degenerate values.
func (d Descriptor) Validate() error {
	for i, dim := range d.BBoxMM {
		if dim <= 0 {
			return &Error{Field: fmt.Sprintf("bbox_mm[%d]", i), Reason: fmt.Sprintf("must be positive, got %v", dim)}
		}
	}
	if d.PartVolumeMM3 < 0 {
		return &Error{Field: "part_volume_mm3", Reason: "must not be negative"}
	}
	if d.SurfaceAreaMM2 <= 0 {
		return &Error{Field: "surface_area_mm2", Reason: "must be positive"}
	}
	if d.StockVolumeMM3 > 0 && d.StockVolumeMM3 < d.PartVolumeMM3 {
		return &Error{Field: "stock_volume_mm3", Reason: "smaller than part volume"}
	}
	if d.MinWallThicknessMM < 0 {
		return &Error{Field: "min_wall_thickness_mm", Reason: "must not be negative"}
	}
	if d.MaxDepthWidthRatio < 0 {
		return &Error{Field: "max_depth_width_ratio", Reason: "must not be negative"}
	}
	return nil
}

// StockVolume derives the raw stock envelope volume in mm³. An explicit
// provider-supplied stock volume wins over the model. The cylinder model
// requires rotational symmetry: the selector has to match the geometry.
func StockVolume(d Descriptor, model StockModel) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if d.StockVolumeMM3 > 0 {
		return d.StockVolumeMM3, nil
	}

	switch model {
	case ModelBBox:
		return d.BBoxMM[0] * d.BBoxMM[1] * d.BBoxMM[2], nil
	case ModelCylinder:
		if !d.RotationalSymmetry {
			return 0, &Error{Field: "rotational_symmetry", Reason: "required for cylinder stock model"}
		}
		radius := math.Max(d.BBoxMM[0], d.BBoxMM[1]) / 2
		height := d.BBoxMM[2]
		return math.Pi * radius * radius * height, nil
	default:
		return 0, &Error{Field: "stock_model", Reason: fmt.Sprintf("unknown model %q", model)}
	}
}

// RemovalVolume is the stock volume minus the part volume, clamped at zero.
func RemovalVolume(stockMM3, partMM3 float64) float64 {
	removal := stockMM3 - partMM3
	if removal < 0 {
		return 0
	}
	return removal
}

// AspectRatios returns the XY and XZ bounding-box aspect ratios, both >= 1.
func (d Descriptor) AspectRatios() (xy, xz float64) {
	xy = ratio(d.BBoxMM[0], d.BBoxMM[1])
	xz = ratio(d.BBoxMM[0], d.BBoxMM[2])
	return xy, xz
}

func ratio(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 1
	}
	if a < b {
		a, b = b, a
	}
	return a / b
}
