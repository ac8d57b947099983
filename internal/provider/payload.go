package provider

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/cycletime/internal/feature"
)

// ErrInvalidResponse marks a provider payload this core refuses to accept.
// Payloads are parsed once at ingestion; a malformed one is rejected whole,
// never partially accepted.
var ErrInvalidResponse = errors.New("invalid provider response")

// Operation is one row of a holistic estimate's operation breakdown.
type Operation struct {
	Operation string  `json:"operation"`
	Minutes   float64 `json:"minutes"`
}

// Holistic is the vision model's whole-drawing time estimate.
type Holistic struct {
	EstimatedTimeMin   float64     `json:"estimated_time_min"`
	PartType           string      `json:"part_type"`
	Complexity         string      `json:"complexity"`
	MaterialDetected   string      `json:"material_detected"`
	Confidence         string      `json:"confidence"`
	Reasoning          string      `json:"reasoning"`
	OperationBreakdown []Operation `json:"operation_breakdown"`
}

// FeatureList is the vision model's structured feature extraction.
type FeatureList struct {
	DrawingNumber     string         `json:"drawing_number"`
	PartName          string         `json:"part_name"`
	PartType          string         `json:"part_type"`
	Material          string         `json:"material"`
	OverallDimensions string         `json:"overall_dimensions"`
	Features          []feature.Item `json:"features"`
}

// Payload is the tagged union of the two shapes a provider can return.
// Exactly one branch is set.
type Payload struct {
	Holistic *Holistic
	Features *FeatureList
}

// Parse decides which shape a raw provider response has and decodes it.
// The discriminator is the presence of `estimated_time_min` (holistic) or
// `features` (feature list); a payload carrying both, neither, or invalid
// JSON is rejected with ErrInvalidResponse.
func Parse(raw []byte) (Payload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	_, hasEstimate := probe["estimated_time_min"]
	_, hasFeatures := probe["features"]

	switch {
	case hasEstimate && hasFeatures:
		return Payload{}, fmt.Errorf("%w: payload carries both holistic and feature shapes", ErrInvalidResponse)
	case hasEstimate:
		var h Holistic
		if err := json.Unmarshal(raw, &h); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		if h.EstimatedTimeMin <= 0 {
			return Payload{}, fmt.Errorf("%w: estimated_time_min must be positive", ErrInvalidResponse)
		}
		return Payload{Holistic: &h}, nil
	case hasFeatures:
		var fl FeatureList
		if err := json.Unmarshal(raw, &fl); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		if len(fl.Features) == 0 {
			return Payload{}, fmt.Errorf("%w: feature list is empty", ErrInvalidResponse)
		}
		for i, item := range fl.Features {
			if item.Type == "" {
				return Payload{}, fmt.Errorf("%w: feature %d has no type", ErrInvalidResponse, i)
			}
		}
		return Payload{Features: &fl}, nil
	default:
		return Payload{}, fmt.Errorf("%w: neither holistic nor feature shape", ErrInvalidResponse)
	}
}
