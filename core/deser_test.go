package core

import (
	"streamstats/stats"
	"streamstats/utils"
	"testing"

	cmp "github.com/google/go-cmp/cmp"
)

func TestSnapshotSerialization(t *testing.T) {
	summary := stats.NewSummary()
	for _, value := range []float64{3.5, -1.25, 8.0, 3.5} {
		utils.AssertEqual(t, summary.Fold(value), nil)
	}
	arrival := stats.NewArrival()
	arrival.Observe(100)
	arrival.Observe(130)
	arrival.Observe(170)

	snapshot := NewSnapshot(6, summary, arrival, 2)
	buf := SnapshotToBytes(snapshot)
	newSnapshot := BytesToSnapshot(buf)

	utils.AssertTrue(t, cmp.Equal(snapshot, newSnapshot))
}

func TestSnapshotRestoresState(t *testing.T) {
	summary := stats.NewSummary()
	for _, value := range []float64{2.0, 4.0, 6.0} {
		utils.AssertEqual(t, summary.Fold(value), nil)
	}
	arrival := stats.NewArrival()
	arrival.Observe(10)
	arrival.Observe(20)

	snapshot := BytesToSnapshot(SnapshotToBytes(NewSnapshot(1, summary, arrival, 0)))

	restored := snapshot.Summary()
	utils.AssertEqual(t, restored.Count(), uint64(3))
	mean, err := restored.Mean()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, mean, 4.0)
	utils.AssertEqual(t, restored.Sum(), 12.0)

	restoredArrival := snapshot.Arrival()
	utils.AssertEqual(t, restoredArrival.FirstArrivalTimestamp, int64(10))
	utils.AssertEqual(t, restoredArrival.LastArrivalTimestamp, int64(20))
	utils.AssertEqual(t, restoredArrival.NumArrivals, uint64(2))
	utils.AssertEqual(t, restoredArrival.IntervalStats.Count(), uint64(1))
}

func TestBytesToSnapshot_BadLength(t *testing.T) {
	utils.AssertTrue(t, BytesToSnapshot(nil) == nil)
	utils.AssertTrue(t, BytesToSnapshot(make([]byte, 17)) == nil)
}

func TestDBInfoSerialization(t *testing.T) {
	info := &DBInfo{NextStreamId: 5, StreamIds: []int64{0, 2, 4}}
	newInfo := BytesToDBInfo(DBInfoToBytes(info))
	utils.AssertTrue(t, cmp.Equal(info, newInfo))

	empty := &DBInfo{NextStreamId: 0, StreamIds: []int64{}}
	utils.AssertTrue(t, cmp.Equal(empty, BytesToDBInfo(DBInfoToBytes(empty))))

	utils.AssertTrue(t, BytesToDBInfo(make([]byte, 3)) == nil)
	utils.AssertTrue(t, BytesToDBInfo(make([]byte, 17)) == nil)
}

func TestStreamInfoSerialization(t *testing.T) {
	info := &StreamInfo{Id: 3, NumShards: 4, EachBufferSize: 512, NumBuffers: 8}
	newInfo := BytesToStreamInfo(StreamInfoToBytes(info))
	utils.AssertTrue(t, cmp.Equal(info, newInfo))

	utils.AssertTrue(t, BytesToStreamInfo(make([]byte, 8)) == nil)
}
