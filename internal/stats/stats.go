package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// #region apply-choice
// ApplyChoice is a pure function that adds deltas to each axis and clamps the
// result into [Min, Max]. Axes absent from d are unchanged (apart from
// clamping a corrupted current value back into range).
func ApplyChoice(s Stats, d Deltas) Stats {
	next := s
	for _, a := range Axes {
		next = next.With(a, clampFloat(float64(s.Get(a))+float64(d[a])))
	}
	return next
}

// #endregion apply-choice

// #region clamp
// Clamp maps an arbitrary number onto a valid axis value. NaN collapses to 0,
// fractions are rounded to the nearest integer.
func Clamp(v float64) int {
	return clampFloat(v)
}

func clampFloat(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return int(v)
}

func clampInt(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// InRange reports whether every axis of s lies in [Min, Max].
func InRange(s Stats) bool {
	for _, a := range Axes {
		v := s.Get(a)
		if v < Min || v > Max {
			return false
		}
	}
	return true
}

// #endregion clamp

// #region json
// UnmarshalJSON decodes stats leniently: missing axes and values that are
// not numbers read as 0, numbers are clamped. Only input that is not a JSON
// object at all is an error.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}
	var out Stats
	for _, a := range Axes {
		out = out.With(a, lenientNumber(raw[string(a)]))
	}
	*s = out
	return nil
}

// UnmarshalJSON decodes deltas leniently, dropping unknown axes and
// non-numeric values. Magnitudes are capped at the width of the axis range.
func (d *Deltas) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode deltas: %w", err)
	}
	out := make(Deltas, len(raw))
	for k, v := range raw {
		a := Axis(k)
		if !a.Valid() {
			continue
		}
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil || math.IsNaN(f) {
			continue
		}
		// Any delta wider than the axis range saturates the same way.
		f = max(-(Max - Min), min(Max-Min, f))
		out[a] = int(math.Round(f))
	}
	*d = out
	return nil
}

func lenientNumber(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return clampFloat(f)
}

// #endregion json
