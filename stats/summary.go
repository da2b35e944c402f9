package stats

import "math"

// Summary is the full single-pass profile of a value stream: running
// moments plus sum, min and max. Same single-writer discipline as
// Moments.
type Summary struct {
	moments Moments
	sum     float64
	min     float64
	max     float64
}

func NewSummary() *Summary {
	return &Summary{}
}

// SummaryFromState reconstructs a Summary from checkpointed scalars.
// min and max are only meaningful when count >= 1.
func SummaryFromState(count uint64, mean, m2, sum, min, max float64) *Summary {
	return &Summary{
		moments: *MomentsFromState(count, mean, m2),
		sum:     sum,
		min:     min,
		max:     max,
	}
}

// Fold adds one observation. Non-finite input is rejected before any
// field is touched, so a failed Fold leaves the summary unchanged.
func (summary *Summary) Fold(value float64) error {
	if err := summary.moments.Fold(value); err != nil {
		return err
	}
	if summary.moments.count == 1 {
		summary.min = value
		summary.max = value
	} else {
		summary.min = math.Min(summary.min, value)
		summary.max = math.Max(summary.max, value)
	}
	summary.sum += value
	return nil
}

func (summary *Summary) Count() uint64 {
	return summary.moments.Count()
}

func (summary *Summary) Sum() float64 {
	return summary.sum
}

func (summary *Summary) Mean() (float64, error) {
	return summary.moments.Mean()
}

func (summary *Summary) Variance(sample bool) (float64, error) {
	return summary.moments.Variance(sample)
}

func (summary *Summary) StdDev(sample bool) (float64, error) {
	return summary.moments.StdDev(sample)
}

func (summary *Summary) Min() (float64, error) {
	if summary.moments.count < 1 {
		return 0, ErrInsufficientData
	}
	return summary.min, nil
}

func (summary *Summary) Max() (float64, error) {
	if summary.moments.count < 1 {
		return 0, ErrInsufficientData
	}
	return summary.max, nil
}

// Moments exposes the underlying accumulator.
func (summary *Summary) Moments() *Moments {
	return &summary.moments
}

// Merge folds the state of other into summary. other is not modified.
func (summary *Summary) Merge(other *Summary) {
	if other.Count() == 0 {
		return
	}
	if summary.Count() == 0 {
		*summary = *other
		return
	}
	summary.min = math.Min(summary.min, other.min)
	summary.max = math.Max(summary.max, other.max)
	summary.sum += other.sum
	summary.moments.Merge(&other.moments)
}

// State returns the scalar fields for checkpointing, mirroring
// SummaryFromState.
func (summary *Summary) State() (count uint64, mean, m2, sum, min, max float64) {
	count, mean, m2 = summary.moments.State()
	return count, mean, m2, summary.sum, summary.min, summary.max
}
