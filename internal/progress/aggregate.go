package progress

import "math"

// AggregateState is the representative state derived from a set of live
// tokens. Busy with a nil Percentage means "busy, indeterminate progress",
// which is distinct from idle.
type AggregateState struct {
	Busy       bool
	Percentage *int
}

// Representative folds a token map into one AggregateState: busy is the OR of
// all token busy flags, percentage the MIN over tokens with a defined
// percentage. Tokens that are busy without a percentage force busy but do not
// contribute a bound. An empty or nil map yields {false, nil}.
func Representative(tokens map[string]TokenState) AggregateState {
	var agg AggregateState
	for _, st := range tokens {
		agg.Busy = agg.Busy || st.Busy
		if st.Percentage == nil {
			continue
		}
		if agg.Percentage == nil || *st.Percentage < *agg.Percentage {
			p := *st.Percentage
			agg.Percentage = &p
		}
	}
	return agg
}

// RampIndex maps a percentage in [0,100] to an index into a ramp of n icons:
// floor(0.5 + pct/100*(n-1)). The source guarantees the range but the result
// is clamped to [0, n-1] anyway.
func RampIndex(pct, n int) int {
	if n <= 1 {
		return 0
	}
	idx := int(math.Floor(0.5 + float64(pct)/100*float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
