// Package filetail provides a simplified, stable root-level API for
// external users.
//
// Instead of importing internal subpackages, consumers can just:
//
//	import "github.com/loykin/filetail"
//
// and use filetail.New, filetail.NewSQLiteStore, and friends directly.
package filetail

import (
	"github.com/loykin/filetail/internal/fingerprint"
	"github.com/loykin/filetail/internal/metrics"
	"github.com/loykin/filetail/internal/store"
	"github.com/loykin/filetail/internal/tailer"
	"github.com/prometheus/client_golang/prometheus"
)

// Config re-exports tailer.Config for convenient use from the module root.
// This is a type alias, so it's fully compatible with the underlying type.
type Config = tailer.Config

// Tailer re-exports tailer.Tailer so callers can keep the concrete type
// when using the root-level constructor.
type Tailer = tailer.Tailer

// Listener re-exports the tailer's listener interface.
type Listener = tailer.Listener

// Trigger re-exports the poll trigger interface.
type Trigger = tailer.Trigger

// TimerTrigger re-exports the fixed-interval trigger.
type TimerTrigger = tailer.TimerTrigger

// PositionStore re-exports the checkpoint store interface consumed by the
// tailer.
type PositionStore = tailer.PositionStore

// InitialPosition re-exports the start/end position tag.
type InitialPosition = tailer.InitialPosition

// ConfigError re-exports the structured construction error.
type ConfigError = tailer.ConfigError

// Initial position constants re-exported for convenient configuration.
const (
	PositionStart = tailer.PositionStart
	PositionEnd   = tailer.PositionEnd
)

// DefaultPrefixSize is the number of leading bytes hashed into a file's
// fingerprint.
const DefaultPrefixSize = fingerprint.DefaultPrefixSize

// New constructs a Tailer from the provided configuration. It is a thin
// wrapper around tailer.New.
func New(cfg Config) (*Tailer, error) {
	return tailer.New(cfg)
}

// ParseInitialPosition converts "start" or "end" into an InitialPosition.
func ParseInitialPosition(s string) (InitialPosition, error) {
	return tailer.ParseInitialPosition(s)
}

// NewSQLiteStore constructs a durable SQLite-backed position store.
func NewSQLiteStore(dbPath string) (store.Store, error) {
	return store.NewSQLiteStore(dbPath)
}

// NewMemoryStore constructs an LRU-bounded in-memory position store.
func NewMemoryStore(maxEntries int) store.Store {
	return store.NewMemoryStore(maxEntries)
}

// Fingerprint computes the identity digest of the file at path, hashing
// its first DefaultPrefixSize bytes.
func Fingerprint(path string) (string, error) {
	return fingerprint.FromPath(path, fingerprint.DefaultPrefixSize)
}

// StartMetrics registers filetail metrics on the default Prometheus
// registry and starts an HTTP server. It returns a stop function to
// gracefully shut down the metrics server.
func StartMetrics(addr string) (func() error, error) {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}
	srv, err := metrics.Start(addr)
	if err != nil {
		return nil, err
	}
	return srv.Stop, nil
}
