package feature

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Mode is the cutting-aggressiveness setting, trading surface finish for
// speed.
type Mode string

const (
	ModeLow  Mode = "low"
	ModeMid  Mode = "mid"
	ModeHigh Mode = "high"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLow, ModeMid, ModeHigh:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid cutting mode %q (low|mid|high)", s)
	}
}

// factor slows or speeds the per-unit times relative to mid.
func (m Mode) factor() float64 {
	switch m {
	case ModeLow:
		return 1.35
	case ModeHigh:
		return 0.75
	default:
		return 1.0
	}
}

// Item is one occurrence in a part's extracted feature list. SecondsEach and
// TotalSeconds are filled in by ComputeTimes; they are zero for informational
// types.
type Item struct {
	Type         string  `json:"type"`
	Count        int     `json:"count"`
	Detail       string  `json:"detail"`
	SecondsEach  float64 `json:"seconds_each,omitempty"`
	TotalSeconds float64 `json:"total_seconds,omitempty"`
}

// typeTiming holds the per-unit baseline for a feature type at mid mode.
// Where a dimension can be read from the detail text, every mm beyond the
// reference dimension adds PerMM seconds.
type typeTiming struct {
	BaseSeconds float64
	RefMM       float64
	PerMM       float64
}

// Baselines come from timed runs on the shop's 3-axis center; they are per
// unit, before the mode factor.
var timings = map[string]typeTiming{
	"drilled_hole":    {BaseSeconds: 20, RefMM: 6, PerMM: 2.0},
	"reamed_hole":     {BaseSeconds: 45, RefMM: 6, PerMM: 3.0},
	"tapped_hole":     {BaseSeconds: 40, RefMM: 6, PerMM: 4.0},
	"counterbore":     {BaseSeconds: 30, RefMM: 8, PerMM: 2.0},
	"countersink":     {BaseSeconds: 15, RefMM: 8, PerMM: 1.0},
	"pocket":          {BaseSeconds: 120, RefMM: 20, PerMM: 3.0},
	"slot":            {BaseSeconds: 60, RefMM: 20, PerMM: 1.5},
	"face_mill":       {BaseSeconds: 90, RefMM: 100, PerMM: 0.5},
	"contour":         {BaseSeconds: 100, RefMM: 100, PerMM: 0.6},
	"chamfer":         {BaseSeconds: 25},
	"fillet":          {BaseSeconds: 30},
	"external_thread": {BaseSeconds: 70, RefMM: 10, PerMM: 4.0},
	"turned_diameter": {BaseSeconds: 80, RefMM: 25, PerMM: 1.5},
	"groove":          {BaseSeconds: 35},
	"bore":            {BaseSeconds: 90, RefMM: 20, PerMM: 2.5},
	"engraving":       {BaseSeconds: 45},
	"deburr":          {BaseSeconds: 40},
}

var dimensionPattern = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

// leadingDimension extracts the first numeric value from a free-text detail
// like "4x Ø8.5 pasante" or "M6x1.0". A leading count prefix ("4x") is
// skipped so it is not mistaken for a dimension.
func leadingDimension(detail string) (float64, bool) {
	s := strings.TrimSpace(detail)
	if i := strings.Index(s, "x"); i > 0 {
		if _, err := strconv.Atoi(strings.TrimSpace(s[:i])); err == nil {
			s = s[i+1:]
		}
	}

	match := dimensionPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// secondsFor computes the per-unit seconds for one time-bearing type.
func secondsFor(key, detail string, mode Mode) float64 {
	timing := timings[key]
	seconds := timing.BaseSeconds
	if timing.PerMM > 0 {
		if dim, ok := leadingDimension(detail); ok && dim > timing.RefMM {
			seconds += (dim - timing.RefMM) * timing.PerMM
		}
	}
	return seconds * mode.factor()
}

// TimeResult is the summed feature-based estimate.
type TimeResult struct {
	Items        []Item  `json:"items"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
}

// ComputeTimes fills per-feature times and sums them. Informational types
// contribute nothing but stay in the result. An unknown type fails the whole
// computation: a misread feature must surface, not vanish into the total.
func ComputeTimes(c Catalog, items []Item, mode Mode) (TimeResult, error) {
	out := make([]Item, len(items))
	var totalSeconds float64

	for i, item := range items {
		meta, err := c.Lookup(item.Type)
		if err != nil {
			return TimeResult{}, err
		}
		if item.Count < 0 {
			return TimeResult{}, fmt.Errorf("feature %q: negative count %d", item.Type, item.Count)
		}

		count := item.Count
		if count == 0 {
			count = 1
		}

		computed := item
		computed.Count = count
		if meta.TimeBearing {
			computed.SecondsEach = secondsFor(item.Type, item.Detail, mode)
			computed.TotalSeconds = computed.SecondsEach * float64(count)
			totalSeconds += computed.TotalSeconds
		} else {
			computed.SecondsEach = 0
			computed.TotalSeconds = 0
		}
		out[i] = computed
	}

	return TimeResult{
		Items:        out,
		TotalSeconds: totalSeconds,
		TotalMinutes: totalSeconds / 60.0,
	}, nil
}

// ApplyComputed carries previously computed times onto an edited feature
// list. Items match by (type, detail) pair and each computed entry is
// consumed at most once, so two equal types with different details keep their
// own times and true duplicates are not double-assigned. Edited items without
// a match keep zero times and need recomputation.
func ApplyComputed(edited, computed []Item) []Item {
	type pairKey struct {
		typ    string
		detail string
	}

	pool := make(map[pairKey][]Item)
	for _, c := range computed {
		k := pairKey{typ: c.Type, detail: c.Detail}
		pool[k] = append(pool[k], c)
	}

	out := make([]Item, len(edited))
	for i, e := range edited {
		out[i] = e
		out[i].SecondsEach = 0
		out[i].TotalSeconds = 0

		k := pairKey{typ: e.Type, detail: e.Detail}
		if queue := pool[k]; len(queue) > 0 {
			out[i].SecondsEach = queue[0].SecondsEach
			out[i].TotalSeconds = queue[0].TotalSeconds
			pool[k] = queue[1:]
		}
	}
	return out
}
