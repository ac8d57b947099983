package similar

import (
	"testing"
)

func corpusEntry(id string, f Features, recorded float64) Entry {
	return Entry{ID: id, Subject: id + ".step", RecordedMin: recorded, Features: f}
}

func TestRankEmptyCorpus(t *testing.T) {
	matches := Rank(Features{VolumeCM3: 10}, nil, DefaultParams())
	if matches == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}

func TestRankOrdersByCloseness(t *testing.T) {
	query := Features{VolumeCM3: 100, RemovalRatio: 0.6, SurfaceAreaCM2: 300, AspectXY: 2, AspectXZ: 3, Machinability: 0.7}
	corpus := []Entry{
		corpusEntry("far", Features{VolumeCM3: 2000, RemovalRatio: 0.1, SurfaceAreaCM2: 5000, AspectXY: 8, AspectXZ: 1, Machinability: 0.1}, 90),
		corpusEntry("near", Features{VolumeCM3: 110, RemovalRatio: 0.58, SurfaceAreaCM2: 320, AspectXY: 2.1, AspectXZ: 2.9, Machinability: 0.7}, 14),
		corpusEntry("mid", Features{VolumeCM3: 400, RemovalRatio: 0.4, SurfaceAreaCM2: 900, AspectXY: 4, AspectXZ: 2, Machinability: 0.5}, 35),
	}

	matches := Rank(query, corpus, DefaultParams())
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].ID != "near" || matches[2].ID != "far" {
		t.Fatalf("unexpected order: %s %s %s", matches[0].ID, matches[1].ID, matches[2].ID)
	}
	if matches[0].RecordedMin != 14 {
		t.Fatalf("match must carry its recorded time, got %+v", matches[0])
	}
}

func TestRankScoresWithinUnitInterval(t *testing.T) {
	query := Features{VolumeCM3: 50, RemovalRatio: 0.5, SurfaceAreaCM2: 200, AspectXY: 1, AspectXZ: 1, Machinability: 0.9, Rotational: 1}
	corpus := []Entry{
		corpusEntry("a", Features{VolumeCM3: 50, RemovalRatio: 0.5, SurfaceAreaCM2: 200, AspectXY: 1, AspectXZ: 1, Machinability: 0.9, Rotational: 1}, 10),
		corpusEntry("b", Features{VolumeCM3: 9000, RemovalRatio: 0.05, SurfaceAreaCM2: 9000, AspectXY: 10, AspectXZ: 10, Machinability: 0.05, Rotational: 0}, 240),
	}

	matches := Rank(query, corpus, DefaultParams())
	for _, m := range matches {
		if m.Score < 0 || m.Score > 1 {
			t.Fatalf("score out of [0,1]: %+v", m)
		}
	}

	// An identical part scores strictly higher than a very different one.
	if matches[0].ID != "a" || matches[0].Score <= matches[1].Score {
		t.Fatalf("identical part should rank first: %+v", matches)
	}
	if matches[0].Score != 1 {
		t.Fatalf("identical part should score 1.0, got %v", matches[0].Score)
	}
}

func TestRankHonorsTopK(t *testing.T) {
	query := Features{VolumeCM3: 10}
	corpus := make([]Entry, 0, 8)
	for i := 0; i < 8; i++ {
		corpus = append(corpus, corpusEntry(string(rune('a'+i)), Features{VolumeCM3: float64(10 + i*3)}, float64(i)))
	}

	p := DefaultParams()
	p.TopK = 3
	matches := Rank(query, corpus, p)
	if len(matches) != 3 {
		t.Fatalf("expected top 3, got %d", len(matches))
	}

	p.TopK = 0 // falls back to the default
	matches = Rank(query, corpus, p)
	if len(matches) != 5 {
		t.Fatalf("expected default top 5, got %d", len(matches))
	}
}

func TestRankIdenticalCorpusDimensionsDoNotNaN(t *testing.T) {
	// Every entry identical: all spans are zero, scores must stay defined.
	f := Features{VolumeCM3: 10, RemovalRatio: 0.5}
	corpus := []Entry{corpusEntry("a", f, 5), corpusEntry("b", f, 6)}

	matches := Rank(f, corpus, DefaultParams())
	for _, m := range matches {
		if m.Score != 1 {
			t.Fatalf("identical vectors should score 1.0, got %+v", m)
		}
	}
}
