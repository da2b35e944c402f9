package stats

import (
	"errors"
	"math"
)

var (
	// ErrInsufficientData is returned when a statistic is read before the
	// accumulator holds enough observations to define it.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNonFiniteValue is returned by Fold for NaN or infinite input.
	ErrNonFiniteValue = errors.New("non-finite value")
)

// Moments maintains running count, mean and variance of a stream of
// observations using Welford's update rule. It stores three scalars and
// never the observations themselves.
//
// An instance is single-writer: Fold must not be called concurrently on
// the same instance. Partition the stream across private instances and
// combine the partials with Merge.
type Moments struct {
	count uint64
	mean  float64
	m2    float64
}

func NewMoments() *Moments {
	return &Moments{
		count: 0,
		mean:  0,
		m2:    0,
	}
}

// MomentsFromState reconstructs an accumulator from a checkpointed
// (count, mean, m2) triple.
func MomentsFromState(count uint64, mean, m2 float64) *Moments {
	return &Moments{
		count: count,
		mean:  mean,
		m2:    m2,
	}
}

// Fold adds one observation. NaN and infinities are rejected with
// ErrNonFiniteValue instead of being folded in, so a single bad input
// cannot poison mean and m2.
//
// The two-delta form below is the numerically stable one; do not replace
// it with the sum-of-squares formula.
func (moments *Moments) Fold(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrNonFiniteValue
	}
	moments.count++
	delta := value - moments.mean
	moments.mean += delta / float64(moments.count)
	delta2 := value - moments.mean
	moments.m2 += delta * delta2
	return nil
}

func (moments *Moments) Count() uint64 {
	return moments.count
}

// Mean returns the running mean, or ErrInsufficientData when no
// observation has been folded yet.
func (moments *Moments) Mean() (float64, error) {
	if moments.count < 1 {
		return 0, ErrInsufficientData
	}
	return moments.mean, nil
}

// Variance returns the sample variance (Bessel's correction, needs at
// least two observations) when sample is true, otherwise the population
// variance (needs at least one).
func (moments *Moments) Variance(sample bool) (float64, error) {
	if sample {
		if moments.count < 2 {
			return 0, ErrInsufficientData
		}
		return moments.m2 / float64(moments.count-1), nil
	}
	if moments.count < 1 {
		return 0, ErrInsufficientData
	}
	return moments.m2 / float64(moments.count), nil
}

// StdDev returns the non-negative square root of Variance(sample).
func (moments *Moments) StdDev(sample bool) (float64, error) {
	variance, err := moments.Variance(sample)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(variance), nil
}

// CV returns the coefficient of variation, sample stddev over mean.
func (moments *Moments) CV() (float64, error) {
	sd, err := moments.StdDev(true)
	if err != nil {
		return 0, err
	}
	mean, err := moments.Mean()
	if err != nil {
		return 0, err
	}
	return sd / mean, nil
}

// Merge folds the state of other into moments, as if every observation
// behind other had been folded here, using the Chan-Golub-LeVeque
// parallel combination. Merging an empty operand is a no-op, so
// empty+empty stays empty. other is not modified.
func (moments *Moments) Merge(other *Moments) {
	if other.count == 0 {
		return
	}
	if moments.count == 0 {
		*moments = *other
		return
	}
	total := moments.count + other.count
	delta := other.mean - moments.mean
	weight := float64(moments.count) * float64(other.count) / float64(total)
	moments.mean += delta * float64(other.count) / float64(total)
	moments.m2 += other.m2 + delta*delta*weight
	moments.count = total
}

// State returns the raw (count, mean, m2) triple for checkpointing.
func (moments *Moments) State() (uint64, float64, float64) {
	return moments.count, moments.mean, moments.m2
}
