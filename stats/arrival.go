package stats

// Arrival tracks the time side of a stream: first/last arrival
// timestamps, arrival count and inter-arrival interval moments. Values
// themselves are folded elsewhere; Observe is called once per appended
// observation whether or not the value is accepted downstream.
type Arrival struct {
	FirstArrivalTimestamp int64
	LastArrivalTimestamp  int64
	NumArrivals           uint64
	IntervalStats         *Moments
}

func NewArrival() *Arrival {
	return &Arrival{
		FirstArrivalTimestamp: -1,
		LastArrivalTimestamp:  -1,
		NumArrivals:           0,
		IntervalStats:         NewMoments(),
	}
}

func (arrival *Arrival) Observe(timestamp int64) {
	if arrival.FirstArrivalTimestamp == -1 {
		arrival.FirstArrivalTimestamp = timestamp
	} else {
		interval := timestamp - arrival.LastArrivalTimestamp
		// Intervals are finite by construction, Fold cannot fail here.
		_ = arrival.IntervalStats.Fold(float64(interval))
	}
	arrival.NumArrivals++
	arrival.LastArrivalTimestamp = timestamp
}
