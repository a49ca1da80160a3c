package common

import (
	"log/slog"
	"sync"
	"time"

	cmdmetrics "github.com/loykin/filetail/cmd/filetail/metrics"
)

// Batcher provides buffering, timing, and stop coordination for sinks.
type Batcher struct {
	Ch            chan string
	BatchSize     int
	BatchInterval time.Duration
	Name          string
	filter        *filter
	Wg            sync.WaitGroup
	StopOnce      sync.Once
	StopCh        chan struct{}
}

func NewBatcher(size int, interval time.Duration, includes, excludes []string, name string) Batcher {
	return Batcher{
		Ch:            make(chan string, size*2),
		BatchSize:     size,
		BatchInterval: interval,
		Name:          name,
		filter:        &filter{includes: includes, excludes: excludes},
		StopCh:        make(chan struct{}),
	}
}

func (b *Batcher) Enqueue(line string) {
	if !b.filter.allow(line) {
		cmdmetrics.SinkDropped(b.Name, "filtered")
		return
	}
	select {
	case b.Ch <- line:
		cmdmetrics.SinkEnqueued(b.Name)
	default:
		// buffer full, drop with a warning to avoid blocking file ingestion
		slog.Warn("sink buffer full; dropping line", "sink", b.Name)
		cmdmetrics.SinkDropped(b.Name, "buffer_full")
	}
}
