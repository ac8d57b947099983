package material

import (
	"fmt"
	"sort"
)

// Entry holds the machinability parameters of one stock material.
// Removal rates are in cm³/min, cutting speeds in m/min, density in g/cm³.
type Entry struct {
	Code              string  // 8-digit numeric material code
	Category          string  // display category, e.g. "Aluminio"
	Name              string
	HardnessHB        float64 // Brinell hardness
	DensityGCm3       float64
	MRRAggressive     float64 // removal rate under aggressive roughing
	MRRFinishing      float64 // removal rate under finishing passes
	SpeedRoughing     float64
	SpeedFinishing    float64
	DeepPocketPenalty float64
	ThinWallPenalty   float64
}

// maxCatalogHardnessHB bounds the hardness normalization used by
// MachinabilityIndex. Harder than this is treated as index 0.
const maxCatalogHardnessHB = 400.0

// MachinabilityIndex maps hardness to [0,1]; softer materials score higher.
func (e Entry) MachinabilityIndex() float64 {
	idx := 1.0 - e.HardnessHB/maxCatalogHardnessHB
	if idx < 0 {
		return 0
	}
	if idx > 1 {
		return 1
	}
	return idx
}

// UnknownCodeError reports a material lookup miss. The caller always learns
// which code failed; the estimator never substitutes a default material.
type UnknownCodeError struct {
	Code string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown material code %q", e.Code)
}

// Catalog is an immutable keyed material table. It is built once at startup
// and passed to the estimators by value; there is no runtime mutation path.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// NewCatalog validates the entries and builds the lookup index.
func NewCatalog(entries []Entry) (Catalog, error) {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		if len(e.Code) != 8 {
			return Catalog{}, fmt.Errorf("material %q: code must be 8 digits", e.Code)
		}
		for _, r := range e.Code {
			if r < '0' || r > '9' {
				return Catalog{}, fmt.Errorf("material %q: code must be numeric", e.Code)
			}
		}
		if _, dup := index[e.Code]; dup {
			return Catalog{}, fmt.Errorf("material %q: duplicate code", e.Code)
		}
		if e.MRRAggressive <= 0 || e.MRRFinishing <= 0 {
			return Catalog{}, fmt.Errorf("material %q: removal rates must be positive", e.Code)
		}
		if e.DeepPocketPenalty < 1 || e.ThinWallPenalty < 1 {
			return Catalog{}, fmt.Errorf("material %q: penalty factors must be >= 1", e.Code)
		}
		index[e.Code] = i
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	for i, e := range sorted {
		index[e.Code] = i
	}

	return Catalog{entries: sorted, index: index}, nil
}

// Lookup returns the entry for code or an *UnknownCodeError.
func (c Catalog) Lookup(code string) (Entry, error) {
	i, ok := c.index[code]
	if !ok {
		return Entry{}, &UnknownCodeError{Code: code}
	}
	return c.entries[i], nil
}

// All returns the entries ordered by code.
func (c Catalog) All() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of entries.
func (c Catalog) Len() int {
	return len(c.entries)
}
