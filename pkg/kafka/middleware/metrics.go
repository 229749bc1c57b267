package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"camrent/pkg/kafka"
)

// PublishMetrics counts publish outcomes. The zero value is ready to use.
type PublishMetrics struct {
	published     atomic.Int64
	failed        atomic.Int64
	totalDuration atomic.Int64 // nanoseconds
}

type PublishSnapshot struct {
	Published         int64         `json:"published"`
	Failed            int64         `json:"failed"`
	AvgPublishLatency time.Duration `json:"avg_publish_latency_ns"`
}

func (m *PublishMetrics) Snapshot() PublishSnapshot {
	published := m.published.Load()
	failed := m.failed.Load()
	s := PublishSnapshot{Published: published, Failed: failed}
	if total := published + failed; total > 0 {
		s.AvgPublishLatency = time.Duration(m.totalDuration.Load() / total)
	}
	return s
}

func (m *PublishMetrics) Reset() {
	m.published.Store(0)
	m.failed.Store(0)
	m.totalDuration.Store(0)
}

func MetricsProducerMiddleware(m *PublishMetrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.totalDuration.Add(int64(time.Since(start)))
		if err != nil {
			m.failed.Add(1)
			return err
		}
		m.published.Add(1)
		return nil
	}
}
