package calibration

import (
	"time"

	"github.com/Simplici0/cycletime/internal/similar"
)

// Status is the lifecycle stage of a calibration record. It only moves
// forward: new → estimated → calibrated → verified.
type Status string

const (
	StatusNew        Status = "new"
	StatusEstimated  Status = "estimated"
	StatusCalibrated Status = "calibrated"
	StatusVerified   Status = "verified"
)

func (s Status) rank() int {
	switch s {
	case StatusNew:
		return 0
	case StatusEstimated:
		return 1
	case StatusCalibrated:
		return 2
	case StatusVerified:
		return 3
	default:
		return -1
	}
}

// CanAdvanceTo reports whether moving to next is a forward transition.
func (s Status) CanAdvanceTo(next Status) bool {
	return s.rank() >= 0 && next.rank() > s.rank()
}

// Method identifies which estimation path produced the machine estimate.
type Method string

const (
	MethodVolumetric   Method = "volumetric"
	MethodAIHolistic   Method = "ai_holistic"
	MethodFeatureBased Method = "feature_based"
)

// Record is the versioned calibration entity for one part. Minutes fields
// are nil until the corresponding value exists; they are never defaulted to
// zero. Records are never physically deleted; accepted mutations bump the
// version counter.
type Record struct {
	ID                 string           `json:"id"`
	Subject            string           `json:"subject"`
	SubjectType        string           `json:"subject_type"`
	Method             Method           `json:"method"`
	MachineEstimateMin *float64         `json:"machine_estimate_min"`
	ModelIdentity      string           `json:"model_identity"`
	Confidence         string           `json:"confidence"`
	BreakdownJSON      string           `json:"breakdown_json,omitempty"`
	FeaturesJSON       string           `json:"features_json,omitempty"`
	HumanEstimateMin   *float64         `json:"human_estimate_min"`
	ActualMin          *float64         `json:"actual_min"`
	Complexity         string           `json:"complexity"`
	Notes              string           `json:"notes"`
	Features           similar.Features `json:"features"`
	Version            int64            `json:"version"`
	Status             Status           `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// RecordedMin is the best time on file: actual wins over human, human over
// machine. The boolean reports whether any time exists at all.
func (r Record) RecordedMin() (float64, bool) {
	switch {
	case r.ActualMin != nil:
		return *r.ActualMin, true
	case r.HumanEstimateMin != nil:
		return *r.HumanEstimateMin, true
	case r.MachineEstimateMin != nil:
		return *r.MachineEstimateMin, true
	default:
		return 0, false
	}
}

// SimilarEntry projects the record into the matcher corpus shape. It
// requires both a recorded time and a geometry fingerprint: feature-based
// and holistic estimates store no part vector, and an all-zero vector would
// read as a real shape and distort the normalization.
func (r Record) SimilarEntry() (similar.Entry, bool) {
	recorded, ok := r.RecordedMin()
	if !ok || r.Features == (similar.Features{}) {
		return similar.Entry{}, false
	}
	return similar.Entry{
		ID:          r.ID,
		Subject:     r.Subject,
		RecordedMin: recorded,
		Features:    r.Features,
	}, true
}
