package stats

import (
	"encoding/json"
	"math"
	"testing"
)

func TestApplyChoiceAddsDeltas(t *testing.T) {
	start := Stats{Eng: 5, Soc: 5, Crtv: 5, Wealth: 5}
	got := ApplyChoice(start, Deltas{Engagement: 2, Social: 1})

	want := Stats{Eng: 7, Soc: 6, Crtv: 5, Wealth: 5}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if start != (Stats{Eng: 5, Soc: 5, Crtv: 5, Wealth: 5}) {
		t.Fatal("input stats mutated")
	}
}

func TestApplyChoiceClamps(t *testing.T) {
	tests := []struct {
		name  string
		start Stats
		d     Deltas
		want  Stats
	}{
		{"upper bound", Uniform(9), Deltas{Engagement: 5, Wealth: 1}, Stats{Eng: 10, Soc: 9, Crtv: 9, Wealth: 10}},
		{"lower bound", Uniform(1), Deltas{Social: -4, Creativity: -1}, Stats{Eng: 1, Soc: 0, Crtv: 0, Wealth: 1}},
		{"corrupted current", Stats{Eng: 42, Soc: -3}, nil, Stats{Eng: 10, Soc: 0}},
		{"unknown axis ignored", Uniform(3), Deltas{"luck": 7}, Uniform(3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyChoice(tc.start, tc.d)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestApplyChoiceAlwaysInRange(t *testing.T) {
	for start := -3; start <= 13; start++ {
		for delta := -15; delta <= 15; delta++ {
			s := Stats{Eng: start, Soc: start, Crtv: start, Wealth: start}
			got := ApplyChoice(s, Deltas{Engagement: delta, Social: -delta, Creativity: delta * 2})
			if !InRange(got) {
				t.Fatalf("start=%d delta=%d produced out of range %+v", start, delta, got)
			}
		}
	}
}

func TestClampNaN(t *testing.T) {
	if got := Clamp(math.NaN()); got != 0 {
		t.Fatalf("expected NaN to clamp to 0, got %d", got)
	}
	if got := Clamp(math.Inf(1)); got != Max {
		t.Fatalf("expected +Inf to clamp to %d, got %d", Max, got)
	}
	if got := Clamp(4.6); got != 5 {
		t.Fatalf("expected 4.6 to round to 5, got %d", got)
	}
}

func TestUnmarshalStatsLenient(t *testing.T) {
	var s Stats
	if err := json.Unmarshal([]byte(`{"eng": 12, "soc": "oops", "crtv": 3.4}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Stats{Eng: 10, Soc: 0, Crtv: 3, Wealth: 0}
	if s != want {
		t.Fatalf("expected %+v, got %+v", want, s)
	}

	if err := json.Unmarshal([]byte(`[1,2]`), &s); err == nil {
		t.Fatal("expected error for non-object stats")
	}
}

func TestUnmarshalDeltasDropsUnknown(t *testing.T) {
	var d Deltas
	if err := json.Unmarshal([]byte(`{"eng": 2, "mood": 1, "soc": null, "wealth": -1}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(d) != 2 || d[Engagement] != 2 || d[Wealth] != -1 {
		t.Fatalf("unexpected deltas %+v", d)
	}

	var huge Deltas
	if err := json.Unmarshal([]byte(`{"eng": 1e19, "soc": -1e19, "crtv": 3}`), &huge); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if huge[Engagement] != Max-Min || huge[Social] != -(Max-Min) || huge[Creativity] != 3 {
		t.Fatalf("expected huge deltas capped with sign kept, got %+v", huge)
	}
	got := ApplyChoice(Baseline(), huge)
	want := Stats{Eng: Max, Soc: Min, Crtv: 8, Wealth: BaselineValue}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestBaselineAndWith(t *testing.T) {
	b := Baseline()
	for _, a := range Axes {
		if b.Get(a) != BaselineValue {
			t.Fatalf("axis %s: expected %d, got %d", a, BaselineValue, b.Get(a))
		}
	}
	if got := b.With(Social, 99).Soc; got != Max {
		t.Fatalf("With should clamp, got %d", got)
	}
}
