package core

import (
	"context"
	"streamstats/stats"

	"github.com/VictoriaMetrics/metrics"
)

const QueueSize = 100

// Pipeline wires one ingester to a set of folder workers through
// per-folder queues:
//
//	Append -> Ingester -> foldQueues[i] -> Folder[i] (private Summary)
//
// Each folder is a single writer over its own shard; Merge is the
// fan-in step combining the shard partials into one Summary. Merge and
// NumRejected are only consistent after Flush.
type Pipeline struct {
	ingester   *Ingester
	folders    []*Folder
	barrier    *Barrier
	foldQueues []chan *IngestBuffer
	numValues  int64
	running    bool
}

func NewPipeline(numShards int) *Pipeline {
	if numShards < 1 {
		numShards = 1
	}
	foldQueues := make([]chan *IngestBuffer, numShards)
	for i := range foldQueues {
		foldQueues[i] = make(chan *IngestBuffer, QueueSize)
	}
	barrier := NewBarrier(numShards)
	folders := make([]*Folder, numShards)
	for i := range folders {
		folders[i] = NewFolder(i, barrier)
	}
	return &Pipeline{
		ingester:   NewIngester(foldQueues),
		folders:    folders,
		barrier:    barrier,
		foldQueues: foldQueues,
		numValues:  0,
		running:    false,
	}
}

func (p *Pipeline) SetBufferSize(eachBufferSize, numBuffers int64) *Pipeline {
	p.ingester.setBufferCapacity(eachBufferSize)
	p.ingester.allocator.SetMaxBuffers(numBuffers)
	return p
}

func (p *Pipeline) SetCounters(folded, rejected *metrics.Counter) *Pipeline {
	for _, folder := range p.folders {
		folder.SetCounters(folded, rejected)
	}
	return p
}

// Seed restores shard 0 from a checkpointed summary. Must be called
// before Run.
func (p *Pipeline) Seed(partial *stats.Summary, rejected uint64) {
	p.folders[0].Seed(partial, rejected)
}

func (p *Pipeline) Run(ctx context.Context) {
	for i, folder := range p.folders {
		go folder.Run(ctx, p.foldQueues[i])
	}
	p.running = true
}

func (p *Pipeline) Append(timestamp int64, value float64) {
	p.ingester.Append(timestamp, value)
	p.numValues += 1
}

// Flush drains every fold queue and blocks until all folders have
// acknowledged. With shutdown set the folders exit afterwards and the
// pipeline cannot be appended to again.
func (p *Pipeline) Flush(shutdown bool) {
	if !p.running {
		return
	}
	p.ingester.Flush(shutdown)
	p.barrier.Wait(len(p.folders))
	if shutdown {
		p.running = false
	}
}

// Merge combines the shard partials into a fresh Summary. Call only
// after Flush; the partials are untouched.
func (p *Pipeline) Merge() *stats.Summary {
	merged := stats.NewSummary()
	for _, folder := range p.folders {
		merged.Merge(folder.Partial())
	}
	return merged
}

// NumRejected is the total of non-finite values dropped by the folders.
// Call only after Flush.
func (p *Pipeline) NumRejected() uint64 {
	total := uint64(0)
	for _, folder := range p.folders {
		total += folder.NumRejected()
	}
	return total
}

func (p *Pipeline) NumShards() int {
	return len(p.folders)
}

func (p *Pipeline) NumValues() int64 {
	return p.numValues
}
