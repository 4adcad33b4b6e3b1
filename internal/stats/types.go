package stats

// #region axis
// Axis names one dimension of the progression vector. The string values are
// the persisted JSON keys.
type Axis string

const (
	Engagement Axis = "eng"
	Social     Axis = "soc"
	Creativity Axis = "crtv"
	Wealth     Axis = "wealth"
)

// Axes lists every axis in canonical order.
var Axes = [4]Axis{Engagement, Social, Creativity, Wealth}

// Valid reports whether a is one of the four known axes.
func (a Axis) Valid() bool {
	switch a {
	case Engagement, Social, Creativity, Wealth:
		return true
	}
	return false
}

// #endregion axis

// #region bounds
const (
	Min = 0
	Max = 10

	// BaselineValue is the value every axis starts at when nothing is persisted.
	BaselineValue = 5
)

// #endregion bounds

// #region stats
// Stats is the four-axis progression vector. Every axis lies in [Min, Max].
type Stats struct {
	Eng    int `json:"eng"`
	Soc    int `json:"soc"`
	Crtv   int `json:"crtv"`
	Wealth int `json:"wealth"`
}

// Baseline returns stats with every axis at BaselineValue.
func Baseline() Stats {
	return Uniform(BaselineValue)
}

// Uniform returns stats with every axis set to v, clamped.
func Uniform(v int) Stats {
	c := clampInt(v)
	return Stats{Eng: c, Soc: c, Crtv: c, Wealth: c}
}

// Get returns the value of one axis. Unknown axes read as 0.
func (s Stats) Get(a Axis) int {
	switch a {
	case Engagement:
		return s.Eng
	case Social:
		return s.Soc
	case Creativity:
		return s.Crtv
	case Wealth:
		return s.Wealth
	}
	return 0
}

// With returns a copy of s with axis a set to v (clamped).
func (s Stats) With(a Axis, v int) Stats {
	v = clampInt(v)
	switch a {
	case Engagement:
		s.Eng = v
	case Social:
		s.Soc = v
	case Creativity:
		s.Crtv = v
	case Wealth:
		s.Wealth = v
	}
	return s
}

// #endregion stats

// #region deltas
// Deltas is a partial adjustment: any subset of the axes, positive or negative.
type Deltas map[Axis]int

// Clone returns an independent copy of d.
func (d Deltas) Clone() Deltas {
	if d == nil {
		return nil
	}
	out := make(Deltas, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// #endregion deltas
