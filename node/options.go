package node

import (
	"log/slog"

	"github.com/luca-patrignani/mental-bet/metrics"
)

type nodeOption func(*Node)

func WithSeedBalance(seed int64) nodeOption {
	return func(n *Node) {
		n.seed = seed
	}
}

func WithMetrics(m *metrics.Metrics) nodeOption {
	return func(n *Node) {
		n.metrics = m
	}
}

func WithLogger(logger *slog.Logger) nodeOption {
	return func(n *Node) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func WithObserver(o Observer) nodeOption {
	return func(n *Node) {
		n.observer = o
	}
}

// WithIDGenerator replaces the generator of new bet ids.
func WithIDGenerator(f func() string) nodeOption {
	return func(n *Node) {
		n.newID = f
	}
}

// WithQueueSize sets how many pending events the dispatch loop buffers.
func WithQueueSize(size int) nodeOption {
	return func(n *Node) {
		if size > 0 {
			n.queueSize = size
		}
	}
}
