package core

import (
	"context"
	"errors"
	"streamstats/stats"
	"streamstats/storage"
)

// Stream is one logical observation stream: a sharded folding pipeline,
// arrival bookkeeping, and checkpoint state. Append/Flush/Checkpoint
// must come from a single caller; the shards parallelize the folding
// underneath, and every read of the aggregate goes through the merge
// fan-in.
type Stream struct {
	streamId     int64
	pipeline     *Pipeline
	store        *BackingStore
	arrival      *stats.Arrival
	config       *StoreConfig
	metrics      *streamMetrics
	checkpointId int64
	backendSet   bool
	running      bool
}

func NewStreamWithId(id int64, config *StoreConfig) *Stream {
	if config == nil {
		config = DefaultStoreConfig()
	}
	sm := newStreamMetrics(id)
	pipeline := NewPipeline(config.NumShards).
		SetBufferSize(config.EachBufferSize, config.NumBuffers).
		SetCounters(sm.folded, sm.rejected)

	return &Stream{
		streamId:     id,
		pipeline:     pipeline,
		store:        nil,
		arrival:      stats.NewArrival(),
		config:       config,
		metrics:      sm,
		checkpointId: 0,
		backendSet:   false,
		running:      false,
	}
}

func (stream *Stream) Id() int64 {
	return stream.streamId
}

func (stream *Stream) SetBackend(backend storage.Backend, cacheEnabled bool) *Stream {
	stream.store = NewBackingStore(backend, cacheEnabled)
	stream.backendSet = true
	return stream
}

// PrimeUp restores the stream from its latest checkpoint, seeding shard
// 0 with the recovered summary. Must run before Run.
func (stream *Stream) PrimeUp() error {
	if !stream.backendSet {
		return errors.New("backend not set")
	}
	latest, found, err := stream.store.Latest(stream.streamId)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	snapshot, err := stream.store.Get(stream.streamId, latest)
	if err != nil {
		return err
	}
	stream.pipeline.Seed(snapshot.Summary(), snapshot.NumRejected)
	stream.arrival = snapshot.Arrival()
	stream.checkpointId = snapshot.CheckpointId
	return nil
}

func (stream *Stream) Run(ctx context.Context) error {
	if !stream.backendSet {
		return errors.New("backend not set")
	}
	stream.pipeline.Run(ctx)
	stream.running = true
	return nil
}

func (stream *Stream) Append(timestamp int64, value float64) error {
	if !stream.running {
		return errors.New("stream is not running")
	}
	stream.arrival.Observe(timestamp)
	stream.metrics.appended.Inc()
	stream.pipeline.Append(timestamp, value)
	return nil
}

// Flush blocks until every appended value has been folded.
func (stream *Stream) Flush() error {
	if !stream.running {
		return errors.New("stream is not running")
	}
	stream.pipeline.Flush(false)
	return nil
}

// Result flushes and returns the merged summary across all shards.
func (stream *Stream) Result() (*stats.Summary, error) {
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return stream.pipeline.Merge(), nil
}

// ArrivalStats exposes the arrival-side statistics. Consistent at any
// time: the appending caller is its only writer.
func (stream *Stream) ArrivalStats() *stats.Arrival {
	return stream.arrival
}

func (stream *Stream) checkpoint() (*Snapshot, error) {
	merged := stream.pipeline.Merge()
	stream.checkpointId += 1
	snapshot := NewSnapshot(
		stream.checkpointId, merged, stream.arrival, stream.pipeline.NumRejected())

	if err := stream.store.Put(stream.streamId, stream.checkpointId, snapshot); err != nil {
		return nil, err
	}
	stream.metrics.checkpoints.Inc()

	if keep := stream.config.KeepCheckpoints; keep > 0 && stream.checkpointId > keep {
		if err := stream.store.Delete(stream.streamId, stream.checkpointId-keep); err != nil {
			return nil, err
		}
	}
	return snapshot, nil
}

// Checkpoint flushes the pipeline and persists a snapshot of the merged
// state under the next checkpoint id.
func (stream *Stream) Checkpoint() (*Snapshot, error) {
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return stream.checkpoint()
}

// Shutdown flushes, stops the folders and writes a final checkpoint.
// The stream cannot be appended to afterwards; reopen it through
// PrimeUp on a fresh stream.
func (stream *Stream) Shutdown() (*Snapshot, error) {
	if !stream.running {
		return nil, nil
	}
	stream.pipeline.Flush(true)
	stream.running = false
	return stream.checkpoint()
}
