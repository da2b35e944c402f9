package core

import (
	"encoding/binary"
	"math"
	"streamstats/stats"
)

// Snapshot is the flat, serializable image of a stream's accumulated
// state: the summary scalars, the arrival bookkeeping and the rejected
// count. It is what gets checkpointed; nothing else is needed to
// resume folding.
type Snapshot struct {
	CheckpointId int64

	Count uint64
	Mean  float64
	M2    float64
	Sum   float64
	Min   float64
	Max   float64

	FirstArrival  int64
	LastArrival   int64
	NumArrivals   uint64
	IntervalCount uint64
	IntervalMean  float64
	IntervalM2    float64

	NumRejected uint64
}

const snapshotNumFields = 14

func NewSnapshot(
	checkpointId int64,
	summary *stats.Summary,
	arrival *stats.Arrival,
	numRejected uint64) *Snapshot {

	count, mean, m2, sum, min, max := summary.State()
	intervalCount, intervalMean, intervalM2 := arrival.IntervalStats.State()
	return &Snapshot{
		CheckpointId:  checkpointId,
		Count:         count,
		Mean:          mean,
		M2:            m2,
		Sum:           sum,
		Min:           min,
		Max:           max,
		FirstArrival:  arrival.FirstArrivalTimestamp,
		LastArrival:   arrival.LastArrivalTimestamp,
		NumArrivals:   arrival.NumArrivals,
		IntervalCount: intervalCount,
		IntervalMean:  intervalMean,
		IntervalM2:    intervalM2,
		NumRejected:   numRejected,
	}
}

func (snapshot *Snapshot) Summary() *stats.Summary {
	return stats.SummaryFromState(
		snapshot.Count,
		snapshot.Mean,
		snapshot.M2,
		snapshot.Sum,
		snapshot.Min,
		snapshot.Max)
}

func (snapshot *Snapshot) Arrival() *stats.Arrival {
	arrival := stats.NewArrival()
	arrival.FirstArrivalTimestamp = snapshot.FirstArrival
	arrival.LastArrivalTimestamp = snapshot.LastArrival
	arrival.NumArrivals = snapshot.NumArrivals
	arrival.IntervalStats = stats.MomentsFromState(
		snapshot.IntervalCount,
		snapshot.IntervalMean,
		snapshot.IntervalM2)
	return arrival
}

// Snapshots are encoded as a fixed-width record of little-endian
// 64-bit fields, in the declaration order above.
func SnapshotToBytes(snapshot *Snapshot) []byte {
	buf := make([]byte, snapshotNumFields*8)
	words := [snapshotNumFields]uint64{
		uint64(snapshot.CheckpointId),
		snapshot.Count,
		math.Float64bits(snapshot.Mean),
		math.Float64bits(snapshot.M2),
		math.Float64bits(snapshot.Sum),
		math.Float64bits(snapshot.Min),
		math.Float64bits(snapshot.Max),
		uint64(snapshot.FirstArrival),
		uint64(snapshot.LastArrival),
		snapshot.NumArrivals,
		snapshot.IntervalCount,
		math.Float64bits(snapshot.IntervalMean),
		math.Float64bits(snapshot.IntervalM2),
		snapshot.NumRejected,
	}
	for w, word := range words {
		binary.LittleEndian.PutUint64(buf[w*8:], word)
	}
	return buf
}

func BytesToSnapshot(buf []byte) *Snapshot {
	if len(buf) != snapshotNumFields*8 {
		return nil
	}
	word := func(w int) uint64 {
		return binary.LittleEndian.Uint64(buf[w*8:])
	}
	return &Snapshot{
		CheckpointId:  int64(word(0)),
		Count:         word(1),
		Mean:          math.Float64frombits(word(2)),
		M2:            math.Float64frombits(word(3)),
		Sum:           math.Float64frombits(word(4)),
		Min:           math.Float64frombits(word(5)),
		Max:           math.Float64frombits(word(6)),
		FirstArrival:  int64(word(7)),
		LastArrival:   int64(word(8)),
		NumArrivals:   word(9),
		IntervalCount: word(10),
		IntervalMean:  math.Float64frombits(word(11)),
		IntervalM2:    math.Float64frombits(word(12)),
		NumRejected:   word(13),
	}
}
