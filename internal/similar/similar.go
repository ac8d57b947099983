package similar

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// dims is the number of feature dimensions in a part vector.
const dims = 7

// Features is the geometry/material fingerprint of a part used for matching.
// The rotational score is 1 for rotationally symmetric parts, 0 otherwise.
type Features struct {
	VolumeCM3      float64 `json:"volume_cm3"`
	RemovalRatio   float64 `json:"removal_ratio"`
	SurfaceAreaCM2 float64 `json:"surface_area_cm2"`
	AspectXY       float64 `json:"aspect_xy"`
	AspectXZ       float64 `json:"aspect_xz"`
	Machinability  float64 `json:"machinability"`
	Rotational     float64 `json:"rotational"`
}

func (f Features) vector() []float64 {
	return []float64{
		f.VolumeCM3, f.RemovalRatio, f.SurfaceAreaCM2,
		f.AspectXY, f.AspectXZ, f.Machinability, f.Rotational,
	}
}

// Entry is one previously estimated part in the corpus.
type Entry struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	RecordedMin float64  `json:"recorded_min"`
	Features    Features `json:"features"`
}

// Match is a ranked corpus entry. Score is in [0,1], higher is more similar.
type Match struct {
	Entry
	Score float64 `json:"score"`
}

// Params tune the matcher. The weighting across dimensions is empirical and
// expected to be re-tuned against the corpus; it is not a fixed formula.
type Params struct {
	TopK    int
	Weights [dims]float64
}

// DefaultParams weight removal ratio and volume slightly above the rest:
// they separate hogging jobs from finishing jobs better than shape does.
func DefaultParams() Params {
	return Params{
		TopK:    5,
		Weights: [dims]float64{1.5, 2.0, 1.0, 1.0, 1.0, 1.0, 0.5},
	}
}

// Rank scores every corpus entry against the query and returns the TopK most
// similar, descending. Matches are a decision aid for a human estimator; the
// caller must never copy a matched time into an estimate without explicit
// confirmation. An empty corpus yields an empty slice, not an error.
func Rank(query Features, corpus []Entry, p Params) []Match {
	if len(corpus) == 0 {
		return []Match{}
	}
	if p.TopK <= 0 {
		p.TopK = DefaultParams().TopK
	}

	// Min-max normalize each dimension over the corpus plus the query so no
	// single raw scale (volume is in the thousands, ratios near 1) dominates
	// the distance.
	vectors := make([][]float64, 0, len(corpus)+1)
	vectors = append(vectors, query.vector())
	for _, e := range corpus {
		vectors = append(vectors, e.Features.vector())
	}

	lo := make([]float64, dims)
	hi := make([]float64, dims)
	for d := 0; d < dims; d++ {
		col := make([]float64, len(vectors))
		for i, v := range vectors {
			col[i] = v[d]
		}
		lo[d] = floats.Min(col)
		hi[d] = floats.Max(col)
	}

	scaled := func(v []float64) []float64 {
		out := make([]float64, dims)
		for d := 0; d < dims; d++ {
			span := hi[d] - lo[d]
			if span > 0 {
				out[d] = (v[d] - lo[d]) / span
			}
			out[d] *= p.Weights[d]
		}
		return out
	}

	q := scaled(vectors[0])
	weightNorm := floats.Norm(p.Weights[:], 2)

	matches := make([]Match, 0, len(corpus))
	for i, e := range corpus {
		d := floats.Distance(q, scaled(vectors[i+1]), 2)
		// Distance is bounded by the weight norm after scaling to [0,1];
		// map it linearly onto a [0,1] similarity.
		score := 1.0
		if weightNorm > 0 {
			score = 1.0 - d/weightNorm
		}
		matches = append(matches, Match{Entry: e, Score: clamp01(score)})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > p.TopK {
		matches = matches[:p.TopK]
	}
	return matches
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	if math.IsNaN(v) {
		return 0
	}
	return v
}
