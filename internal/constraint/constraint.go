package constraint

import (
	"fmt"

	"github.com/Simplici0/cycletime/internal/geometry"
	"github.com/Simplici0/cycletime/internal/material"
)

// Kind identifies a machining difficulty class.
type Kind string

const (
	KindDeepPocket Kind = "deep_pocket"
	KindThinWall   Kind = "thin_wall"
)

// Constraint is one detected machining difficulty. Constraints are ephemeral:
// recomputed per request and embedded in the estimation result, never stored
// on their own.
type Constraint struct {
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Penalty   float64 `json:"penalty"`
	Reason    string  `json:"reason"`
}

// Thresholds are the shop-tunable trigger points. They come from the
// estimator config, not from compiled-in constants.
type Thresholds struct {
	DeepPocketRatio float64 // depth/width ratio above which a pocket slows the cut
	ThinWallMM      float64 // walls thinner than this need careful passes
}

// DefaultThresholds returns the values the estimator ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{DeepPocketRatio: 3.0, ThinWallMM: 3.0}
}

// Detection is the ordered list of triggered constraints plus their combined
// multiplier. Multiple difficulties compound, so the combination rule is the
// product of all triggered penalties, 1.0 when none trigger.
type Detection struct {
	Constraints []Constraint `json:"constraints"`
	Multiplier  float64      `json:"multiplier"`
}

// Rule evaluates one predicate against the geometry and material and reports
// whether it triggered. New difficulty classes are added here as independent
// predicate→multiplier entries.
type Rule func(d geometry.Descriptor, m material.Entry, th Thresholds) (Constraint, bool)

func deepPocketRule(d geometry.Descriptor, m material.Entry, th Thresholds) (Constraint, bool) {
	if d.MaxDepthWidthRatio <= th.DeepPocketRatio {
		return Constraint{}, false
	}
	return Constraint{
		Kind:      KindDeepPocket,
		Value:     d.MaxDepthWidthRatio,
		Threshold: th.DeepPocketRatio,
		Penalty:   m.DeepPocketPenalty,
		Reason: fmt.Sprintf("bolsillo profundo: relación profundidad/ancho %.2f excede %.2f",
			d.MaxDepthWidthRatio, th.DeepPocketRatio),
	}, true
}

func thinWallRule(d geometry.Descriptor, m material.Entry, th Thresholds) (Constraint, bool) {
	if d.MinWallThicknessMM <= 0 || d.MinWallThicknessMM >= th.ThinWallMM {
		return Constraint{}, false
	}
	return Constraint{
		Kind:      KindThinWall,
		Value:     d.MinWallThicknessMM,
		Threshold: th.ThinWallMM,
		Penalty:   m.ThinWallPenalty,
		Reason: fmt.Sprintf("pared delgada: %.2f mm por debajo de %.2f mm",
			d.MinWallThicknessMM, th.ThinWallMM),
	}, true
}

var defaultRules = []Rule{deepPocketRule, thinWallRule}

// Detect runs every rule independently and multiplies the triggered
// penalties. Constraints only make parts slower: each penalty is >= 1, so
// the combined multiplier is too.
func Detect(d geometry.Descriptor, m material.Entry, th Thresholds) Detection {
	det := Detection{Constraints: make([]Constraint, 0, len(defaultRules)), Multiplier: 1.0}
	for _, rule := range defaultRules {
		c, triggered := rule(d, m, th)
		if !triggered {
			continue
		}
		if c.Penalty < 1 {
			c.Penalty = 1
		}
		det.Constraints = append(det.Constraints, c)
		det.Multiplier *= c.Penalty
	}
	return det
}
