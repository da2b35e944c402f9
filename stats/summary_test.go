package stats

import (
	"math"
	"streamstats/utils"
	"testing"
)

func foldSummary(t *testing.T, summary *Summary, values []float64) {
	for _, value := range values {
		if err := summary.Fold(value); err != nil {
			t.Fatalf("Fold(%v): %v", value, err)
		}
	}
}

func TestSummary(t *testing.T) {
	summary := NewSummary()
	foldSummary(t, summary, []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0})

	utils.AssertEqual(t, summary.Count(), uint64(8))
	utils.AssertEqual(t, summary.Sum(), 40.0)

	mean, err := summary.Mean()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, mean, 5.0)

	min, err := summary.Min()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, min, 2.0)

	max, err := summary.Max()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, max, 9.0)

	sd, err := summary.StdDev(false)
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, sd, 2.0)
}

func TestSummary_Empty(t *testing.T) {
	summary := NewSummary()

	if _, err := summary.Min(); err != ErrInsufficientData {
		t.Fatalf("Min on empty: got %v", err)
	}
	if _, err := summary.Max(); err != ErrInsufficientData {
		t.Fatalf("Max on empty: got %v", err)
	}
	utils.AssertEqual(t, summary.Sum(), 0.0)
}

func TestSummary_RejectedFoldLeavesStateUntouched(t *testing.T) {
	summary := NewSummary()
	foldSummary(t, summary, []float64{1.0, 3.0})

	if err := summary.Fold(math.Inf(1)); err != ErrNonFiniteValue {
		t.Fatalf("Fold(+Inf): got %v", err)
	}

	utils.AssertEqual(t, summary.Count(), uint64(2))
	utils.AssertEqual(t, summary.Sum(), 4.0)
	max, _ := summary.Max()
	utils.AssertEqual(t, max, 3.0)
}

func TestSummary_Merge(t *testing.T) {
	a := NewSummary()
	foldSummary(t, a, []float64{1.0, 2.0, 3.0})
	b := NewSummary()
	foldSummary(t, b, []float64{4.0, 5.0, 6.0})

	a.Merge(b)
	utils.AssertEqual(t, a.Count(), uint64(6))
	utils.AssertEqual(t, a.Sum(), 21.0)

	mean, err := a.Mean()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, mean, 3.5)

	min, _ := a.Min()
	max, _ := a.Max()
	utils.AssertEqual(t, min, 1.0)
	utils.AssertEqual(t, max, 6.0)

	// Merging an empty summary is a no-op.
	a.Merge(NewSummary())
	utils.AssertEqual(t, a.Count(), uint64(6))

	empty := NewSummary()
	empty.Merge(b)
	utils.AssertEqual(t, empty.Count(), uint64(3))
	min, _ = empty.Min()
	utils.AssertEqual(t, min, 4.0)
}

func TestSummary_StateRoundTrip(t *testing.T) {
	summary := NewSummary()
	foldSummary(t, summary, []float64{10.0, 20.0, 30.0})

	count, mean, m2, sum, min, max := summary.State()
	restored := SummaryFromState(count, mean, m2, sum, min, max)

	utils.AssertEqual(t, restored.Count(), summary.Count())
	utils.AssertEqual(t, restored.Sum(), summary.Sum())
	restoredVar, err := restored.Variance(true)
	utils.AssertEqual(t, err, nil)
	originalVar, _ := summary.Variance(true)
	utils.AssertEqual(t, restoredVar, originalVar)
}
