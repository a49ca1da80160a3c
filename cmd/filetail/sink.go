package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/loykin/filetail/cmd/filetail/sink/clickhouse"
	"github.com/loykin/filetail/cmd/filetail/sink/common"
	"github.com/loykin/filetail/cmd/filetail/sink/console"
	"github.com/loykin/filetail/cmd/filetail/sink/file"
	"github.com/loykin/filetail/cmd/filetail/sink/opensearch"
)

// Sink is the common sink interface from subpackages.
type Sink = common.Sink

// buildSink constructs and starts a sink based on Config.
func buildSink(cfg *Config) (Sink, error) {
	host := cfg.Sink.Host
	if host == "" {
		if h, err := os.Hostname(); err == nil {
			host = h
		}
	}
	switch cfg.Sink.Type {
	case "", "console":
		stream := strings.ToLower(cfg.Sink.Console.Stream)
		return console.New(stream, cfg.Sink.BatchSize, cfg.Sink.BatchInterval, cfg.Sink.Include, cfg.Sink.Exclude), nil
	case "file":
		return file.New(
			cfg.Sink.File,
			cfg.Sink.BatchSize,
			cfg.Sink.BatchInterval,
			cfg.Sink.Include,
			cfg.Sink.Exclude,
		)
	case "clickhouse":
		return clickhouse.New(
			cfg.Sink.ClickHouse,
			host,
			cfg.Sink.Labels,
			cfg.Sink.BatchSize,
			cfg.Sink.BatchInterval,
			cfg.Sink.Include,
			cfg.Sink.Exclude,
		)
	case "opensearch":
		return opensearch.New(
			cfg.Sink.OpenSearch,
			host,
			cfg.Sink.Labels,
			cfg.Sink.BatchSize,
			cfg.Sink.BatchInterval,
			cfg.Sink.Include,
			cfg.Sink.Exclude,
		)
	default:
		return nil, fmt.Errorf("unsupported sink: %s", cfg.Sink.Type)
	}
}
