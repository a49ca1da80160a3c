package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	cmdmetrics "github.com/loykin/filetail/cmd/filetail/metrics"
	"github.com/loykin/filetail/cmd/filetail/sink/common"
)

type Sink struct {
	batcher  common.Batcher
	conn     ch.Conn
	database string
	table    string
	host     string
	labels   map[string]string
}

func New(cfg Config, host string, labels map[string]string, batchSize int, batchInterval time.Duration, includes, excludes []string) (common.Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Build options: support HTTP and native
	var opts ch.Options
	if strings.Contains(cfg.Addr, "://") {
		u, err := url.Parse(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid ch addr: %w", err)
		}
		opts = ch.Options{Addr: []string{u.Host}, Protocol: ch.HTTP, Auth: ch.Auth{Username: cfg.User, Password: cfg.Password, Database: cfg.Database}}
		if u.Scheme == "https" {
			opts.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	} else {
		opts = ch.Options{Addr: []string{cfg.Addr}, Auth: ch.Auth{Username: cfg.User, Password: cfg.Password, Database: cfg.Database}}
	}
	// Run embedded migrations to ensure table exists
	if err := runMigrations(&opts, cfg.Database, cfg.Table); err != nil {
		return nil, err
	}
	// Open insert connection
	conn, err := ch.Open(&opts)
	if err != nil {
		return nil, err
	}
	s := &Sink{
		batcher:  common.NewBatcher(batchSize, batchInterval, includes, excludes, "clickhouse"),
		conn:     conn,
		database: cfg.Database,
		table:    cfg.Table,
		host:     host,
		labels:   labels,
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
			err := s.flush(buf)
			cmdmetrics.SinkFlushObserve("clickhouse", len(buf), time.Since(start), err == nil)
			if err != nil {
				slog.Error("clickhouse flush failed", "error", err)
			}
			buf = buf[:0]
		}
		for {
			select {
			case <-s.batcher.StopCh:
				flush()
				return
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

func (s *Sink) Stop() error {
	s.batcher.StopOnce.Do(func() { close(s.batcher.StopCh) })
	s.batcher.Wg.Wait()
	return s.conn.Close()
}

func (s *Sink) Enqueue(line string) { s.batcher.Enqueue(line) }

func (s *Sink) flush(lines []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tbl := s.table
	if s.database != "" && !strings.Contains(tbl, ".") {
		tbl = s.database + "." + s.table
	}
	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+tbl+" (ts, host, labels, message)")
	if err != nil {
		return err
	}
	for _, ln := range lines {
		if err := batch.Append(time.Now(), s.host, s.labels, ln); err != nil {
			return err
		}
	}
	return batch.Send()
}
