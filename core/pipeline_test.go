package core

import (
	"context"
	"math"
	"streamstats/stats"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runPipeline(numShards int, bufferSize int64) (*Pipeline, context.CancelFunc) {
	pipeline := NewPipeline(numShards).SetBufferSize(bufferSize, 16)
	ctx, cancel := context.WithCancel(context.Background())
	pipeline.Run(ctx)
	return pipeline, cancel
}

func TestPipeline_MatchesSequential(t *testing.T) {
	pipeline, cancel := runPipeline(4, 16)
	defer cancel()

	sequential := stats.NewSummary()
	for i := 0; i < 1000; i++ {
		value := float64(i%97) * 1.5
		pipeline.Append(int64(i), value)
		assert.NoError(t, sequential.Fold(value))
	}
	pipeline.Flush(false)
	merged := pipeline.Merge()

	assert.Equal(t, merged.Count(), sequential.Count())
	assert.InDelta(t, merged.Sum(), sequential.Sum(), 1e-6)

	mergedMean, err := merged.Mean()
	assert.NoError(t, err)
	seqMean, _ := sequential.Mean()
	assert.InDelta(t, mergedMean, seqMean, 1e-9)

	mergedVar, err := merged.Variance(false)
	assert.NoError(t, err)
	seqVar, _ := sequential.Variance(false)
	assert.InDelta(t, mergedVar, seqVar, 1e-6)

	mergedMin, _ := merged.Min()
	seqMin, _ := sequential.Min()
	assert.Equal(t, mergedMin, seqMin)
	mergedMax, _ := merged.Max()
	seqMax, _ := sequential.Max()
	assert.Equal(t, mergedMax, seqMax)
}

func TestPipeline_RejectsNonFinite(t *testing.T) {
	pipeline, cancel := runPipeline(2, 4)
	defer cancel()

	pipeline.Append(0, 1.0)
	pipeline.Append(1, math.NaN())
	pipeline.Append(2, 2.0)
	pipeline.Append(3, math.Inf(1))
	pipeline.Append(4, 3.0)
	pipeline.Flush(false)

	merged := pipeline.Merge()
	assert.Equal(t, merged.Count(), uint64(3))
	assert.Equal(t, pipeline.NumRejected(), uint64(2))

	mean, err := merged.Mean()
	assert.NoError(t, err)
	assert.Equal(t, mean, 2.0)
}

func TestPipeline_FlushThenContinue(t *testing.T) {
	pipeline, cancel := runPipeline(3, 8)
	defer cancel()

	for i := 0; i < 10; i++ {
		pipeline.Append(int64(i), 1.0)
	}
	pipeline.Flush(false)
	assert.Equal(t, pipeline.Merge().Count(), uint64(10))

	for i := 10; i < 25; i++ {
		pipeline.Append(int64(i), 2.0)
	}
	pipeline.Flush(false)
	merged := pipeline.Merge()
	assert.Equal(t, merged.Count(), uint64(25))
	assert.Equal(t, merged.Sum(), 40.0)
	assert.Equal(t, pipeline.NumValues(), int64(25))
}

func TestPipeline_Shutdown(t *testing.T) {
	pipeline, cancel := runPipeline(2, 4)
	defer cancel()

	for i := 0; i < 9; i++ {
		pipeline.Append(int64(i), float64(i))
	}
	pipeline.Flush(true)

	merged := pipeline.Merge()
	assert.Equal(t, merged.Count(), uint64(9))
	assert.Equal(t, merged.Sum(), 36.0)
}

func TestPipeline_Seed(t *testing.T) {
	seed := stats.NewSummary()
	assert.NoError(t, seed.Fold(10.0))
	assert.NoError(t, seed.Fold(20.0))

	pipeline := NewPipeline(2).SetBufferSize(4, 16)
	pipeline.Seed(seed, 7)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pipeline.Run(ctx)

	pipeline.Append(0, 30.0)
	pipeline.Flush(false)

	merged := pipeline.Merge()
	assert.Equal(t, merged.Count(), uint64(3))
	mean, err := merged.Mean()
	assert.NoError(t, err)
	assert.Equal(t, mean, 20.0)
	assert.Equal(t, pipeline.NumRejected(), uint64(7))
}

func TestPipeline_SingleShard(t *testing.T) {
	pipeline, cancel := runPipeline(1, 1)
	defer cancel()

	for _, value := range []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0} {
		pipeline.Append(0, value)
	}
	pipeline.Flush(false)

	merged := pipeline.Merge()
	mean, err := merged.Mean()
	assert.NoError(t, err)
	assert.Equal(t, mean, 5.0)
	sd, err := merged.StdDev(false)
	assert.NoError(t, err)
	assert.Equal(t, sd, 2.0)
}
