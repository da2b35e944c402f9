package core

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// streamMetrics are the per-stream counters, labelled by stream id.
// GetOrCreate keeps reopening a stream idempotent.
type streamMetrics struct {
	appended    *metrics.Counter
	folded      *metrics.Counter
	rejected    *metrics.Counter
	checkpoints *metrics.Counter
}

func newStreamMetrics(streamId int64) *streamMetrics {
	return &streamMetrics{
		appended: metrics.GetOrCreateCounter(
			fmt.Sprintf(`streamstats_appended_total{stream="%d"}`, streamId)),
		folded: metrics.GetOrCreateCounter(
			fmt.Sprintf(`streamstats_folded_total{stream="%d"}`, streamId)),
		rejected: metrics.GetOrCreateCounter(
			fmt.Sprintf(`streamstats_rejected_total{stream="%d"}`, streamId)),
		checkpoints: metrics.GetOrCreateCounter(
			fmt.Sprintf(`streamstats_checkpoints_total{stream="%d"}`, streamId)),
	}
}
