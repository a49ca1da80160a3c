package file

import (
	"fmt"
	"time"

	cmdmetrics "github.com/loykin/filetail/cmd/filetail/metrics"
	"github.com/loykin/filetail/cmd/filetail/sink/common"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink batches lines into a size-rotated output file.
type Sink struct {
	batcher common.Batcher
	out     *lumberjack.Logger
}

// New creates a file sink and starts it. The output file is rotated by
// lumberjack according to cfg.
func New(cfg Config, batchSize int, batchInterval time.Duration, includes, excludes []string) (common.Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sink{
		batcher: common.NewBatcher(batchSize, batchInterval, includes, excludes, "file"),
		out: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
	}
	s.start()
	return s, nil
}

func (s *Sink) start() {
	s.batcher.Wg.Add(1)
	go func() {
		defer s.batcher.Wg.Done()
		buf := make([]string, 0, s.batcher.BatchSize)
		ticker := time.NewTicker(s.batcher.BatchInterval)
		defer ticker.Stop()
		flush := func() {
			if len(buf) == 0 {
				return
			}
			start := time.Now()
			ok := true
			for _, ln := range buf {
				if _, err := fmt.Fprintln(s.out, ln); err != nil {
					ok = false
				}
			}
			cmdmetrics.SinkFlushObserve("file", len(buf), time.Since(start), ok)
			buf = buf[:0]
		}
		for {
			select {
			case <-s.batcher.StopCh:
				// Drain lines already queued so Stop flushes them too.
				for {
					select {
					case line := <-s.batcher.Ch:
						buf = append(buf, line)
					default:
						flush()
						return
					}
				}
			case <-ticker.C:
				flush()
			case line := <-s.batcher.Ch:
				buf = append(buf, line)
				if len(buf) >= s.batcher.BatchSize {
					flush()
				}
			}
		}
	}()
}

func (s *Sink) Enqueue(line string) { s.batcher.Enqueue(line) }

func (s *Sink) Stop() error {
	s.batcher.StopOnce.Do(func() { close(s.batcher.StopCh) })
	s.batcher.Wg.Wait()
	return s.out.Close()
}
