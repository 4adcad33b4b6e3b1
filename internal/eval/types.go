package eval

// #region eval-config
// EvalConfig holds the thresholds a feed is checked against.
type EvalConfig struct {
	MaxFeed int // upper bound on episodes per day
	MinStat int // lowest legal stat value
	MaxStat int // highest legal stat value
}

// DefaultEvalConfig returns the engine's production bounds.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MaxFeed: 3,
		MinStat: 0,
		MaxStat: 10,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of feed validation.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// #endregion eval-result
