package core

import (
	"context"
	"streamstats/stats"

	"github.com/VictoriaMetrics/metrics"
)

// Folder owns one shard's partial statistics. It is the single writer
// of its Summary; the partial may only be read after a barrier wait has
// confirmed the folder drained its queue.
//
// Non-finite values are counted as rejected instead of being folded, so
// one bad record cannot poison the stream's statistics.
type Folder struct {
	id       int
	partial  *stats.Summary
	rejected uint64
	barrier  *Barrier

	foldedCounter   *metrics.Counter
	rejectedCounter *metrics.Counter
}

func NewFolder(id int, barrier *Barrier) *Folder {
	return &Folder{
		id:      id,
		partial: stats.NewSummary(),
		barrier: barrier,
	}
}

func (f *Folder) SetCounters(folded, rejected *metrics.Counter) {
	f.foldedCounter = folded
	f.rejectedCounter = rejected
}

// Seed replaces the folder's partial state, for checkpoint recovery.
// Must be called before Run.
func (f *Folder) Seed(partial *stats.Summary, rejected uint64) {
	f.partial = partial
	f.rejected = rejected
}

func (f *Folder) fold(buffer *IngestBuffer) {
	for pos := int64(0); pos < buffer.Size; pos++ {
		_, value, ok := buffer.Get(pos)
		if !ok {
			break
		}
		if err := f.partial.Fold(value); err != nil {
			f.rejected++
			if f.rejectedCounter != nil {
				f.rejectedCounter.Inc()
			}
			continue
		}
		if f.foldedCounter != nil {
			f.foldedCounter.Inc()
		}
	}
	buffer.Dispose()
}

func (f *Folder) Run(ctx context.Context, foldQueue <-chan *IngestBuffer) {
	for {
		select {
		case buffer := <-foldQueue:
			if buffer == ConstShutdownIngestBuffer() {
				f.barrier.Notify()
				return
			} else if buffer == ConstFlushIngestBuffer() {
				f.barrier.Notify()
				continue
			}
			f.fold(buffer)
		case <-ctx.Done():
			return
		}
	}
}

// Partial returns the folder's summary. Only consistent after a flush
// barrier.
func (f *Folder) Partial() *stats.Summary {
	return f.partial
}

func (f *Folder) NumRejected() uint64 {
	return f.rejected
}
