package estimate

import (
	"github.com/Simplici0/cycletime/internal/constraint"
	"github.com/Simplici0/cycletime/internal/geometry"
	"github.com/Simplici0/cycletime/internal/material"
)

// Params are the empirical estimator knobs. The finishing fraction and the
// setup constant are placeholders pending the learned correction layer, so
// they stay caller-overridable and are never treated as physics.
type Params struct {
	FinishingFraction float64 // share of finishing work charged per surface pass
	SetupMinutes      float64 // fixed setup and handling time per part
}

// DefaultParams returns the shipped tunable values.
func DefaultParams() Params {
	return Params{FinishingFraction: 0.10, SetupMinutes: 5.0}
}

// Confidence is the coarse reliability label derived from how many
// constraints triggered. It communicates uncertainty; it is not a substitute
// for validation failures.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFor maps a triggered-constraint count to a label.
func ConfidenceFor(constraintCount int) Confidence {
	switch {
	case constraintCount == 0:
		return ConfidenceHigh
	case constraintCount <= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Breakdown contains the per-operation minutes of a volumetric estimate.
type Breakdown struct {
	RoughingMin  float64 `json:"roughing_min"`
	FinishingMin float64 `json:"finishing_min"`
	SetupMin     float64 `json:"setup_min"`
	TotalMin     float64 `json:"total_min"`
}

// Result groups the full volumetric estimation output.
type Result struct {
	Breakdown        Breakdown               `json:"breakdown"`
	Constraints      []constraint.Constraint `json:"constraints"`
	Multiplier       float64                 `json:"multiplier"`
	Confidence       Confidence              `json:"confidence"`
	StockVolumeMM3   float64                 `json:"stock_volume_mm3"`
	RemovalVolumeMM3 float64                 `json:"removal_volume_mm3"`
}

const (
	mm3PerCm3 = 1000.0
	mm2PerCm2 = 100.0
)

// Volumetric computes the physics-based removal estimate:
//
//	roughing  = (removal cm³ / MRR aggressive) × constraint multiplier
//	finishing = (surface cm² / MRR finishing) × finishing fraction
//	setup     = fixed minutes
//
// A part with nothing to remove still costs finishing plus setup, never zero.
func Volumetric(d geometry.Descriptor, model geometry.StockModel, m material.Entry, th constraint.Thresholds, p Params) (Result, error) {
	stock, err := geometry.StockVolume(d, model)
	if err != nil {
		return Result{}, err
	}
	removal := geometry.RemovalVolume(stock, d.PartVolumeMM3)

	det := constraint.Detect(d, m, th)

	roughing := (removal / mm3PerCm3) / m.MRRAggressive * det.Multiplier
	finishing := (d.SurfaceAreaMM2 / mm2PerCm2) / m.MRRFinishing * p.FinishingFraction
	total := roughing + finishing + p.SetupMinutes

	return Result{
		Breakdown: Breakdown{
			RoughingMin:  roughing,
			FinishingMin: finishing,
			SetupMin:     p.SetupMinutes,
			TotalMin:     total,
		},
		Constraints:      det.Constraints,
		Multiplier:       det.Multiplier,
		Confidence:       ConfidenceFor(len(det.Constraints)),
		StockVolumeMM3:   stock,
		RemovalVolumeMM3: removal,
	}, nil
}
