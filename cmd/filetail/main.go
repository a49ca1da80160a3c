package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	cmdmetrics "github.com/loykin/filetail/cmd/filetail/metrics"
	"github.com/loykin/filetail/internal/fingerprint"
	"github.com/loykin/filetail/internal/metrics"
	"github.com/loykin/filetail/internal/multiline"
	"github.com/loykin/filetail/internal/store"
	"github.com/loykin/filetail/internal/tailer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	config := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "filetail",
		Short: "A stateful log file tailer",
		Long: `filetail follows a single append-only log file, surviving log rotation
and process restarts, and forwards each line to a sink.

The read offset is checkpointed in a position store keyed by a fingerprint
of the file's prefix, so a restarted filetail resumes where it left off
even after the file was rotated underneath it.

Examples:
  # Tail a file to stdout, checkpointing in ./filetail.db
  filetail --file /var/log/app.log

  # Start at the end of the file and poll twice a second
  filetail --file /var/log/app.log --initial-position end --read-interval 500ms

  # Keep checkpoints in memory only
  filetail --file /var/log/app.log --store memory`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadFromViper(cmd); err != nil {
				return err
			}
			return config.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config)
		},
	}

	config.SetupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	// Optionally start the Prometheus metrics endpoint
	metricsStop := func() error { return nil }
	if cfg.Prometheus.Enable {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("failed to register prometheus metrics: %w", err)
		}
		if err := cmdmetrics.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("failed to register sink metrics: %w", err)
		}
		metricsServer, err := metrics.Start(cfg.Prometheus.Addr)
		if err != nil {
			return fmt.Errorf("failed to start prometheus endpoint: %w", err)
		}
		metricsStop = metricsServer.Stop
	}
	defer func() { _ = metricsStop() }()

	snk, err := buildSink(cfg)
	if err != nil {
		return fmt.Errorf("error creating sink: %w", err)
	}
	defer func() { _ = snk.Stop() }()

	// Optional multiline assembly between the listener and the sink
	var assembler *multiline.Assembler
	if cfg.Multiline.Enable {
		assembler, err = multiline.New(multiline.Config{
			Mode:             cfg.Multiline.Mode,
			StartPattern:     cfg.Multiline.StartPattern,
			ConditionPattern: cfg.Multiline.ConditionPattern,
			Timeout:          cfg.Multiline.Timeout,
		})
		if err != nil {
			return err
		}
		go func() {
			for rec := range assembler.Recv() {
				snk.Enqueue(string(rec))
			}
		}()
		defer func() {
			assembler.Flush()
			assembler.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initialPos, err := tailer.ParseInitialPosition(cfg.Tailer.InitialPosition)
	if err != nil {
		return err
	}

	// Supervise the tailer: a fatal error shuts the tailer down by
	// contract, so recreate it after a backoff instead of giving up.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	for {
		st, err := buildStore(cfg.Tailer.Store)
		if err != nil {
			return fmt.Errorf("error creating position store: %w", err)
		}
		markRestoredOffset(cfg.Tailer.File, st)

		fatalCh := make(chan error, 1)
		listener := &sinkListener{
			file:      cfg.Tailer.File,
			sink:      snk,
			assembler: assembler,
			onFatal: func(err error) {
				select {
				case fatalCh <- err:
				default:
				}
			},
			onLine: bo.Reset,
		}

		tl, err := tailer.New(tailer.Config{
			File:            cfg.Tailer.File,
			PositionStore:   st,
			Listener:        listener,
			ReadInterval:    cfg.Tailer.ReadInterval,
			InitialPosition: initialPos,
			RotationGrace:   cfg.Tailer.RotationGrace,
		})
		if err != nil {
			_ = st.Close()
			return err
		}

		done := make(chan struct{})
		go func() {
			tl.Run(ctx)
			close(done)
		}()

		select {
		case <-ctx.Done():
			tl.Stop()
			<-done
			return nil
		case err := <-fatalCh:
			<-done
			wait := bo.NextBackOff()
			slog.Error("restarting tailer", "file", cfg.Tailer.File, "error", err, "backoff", wait)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}
	}
}

// buildStore constructs the configured position store. The tailer closes
// the store when it exits, so the supervisor builds a fresh one per
// attempt.
func buildStore(cfg StoreConfig) (store.Store, error) {
	if cfg.Type == "memory" {
		return store.NewMemoryStore(cfg.MaxEntries), nil
	}
	return store.NewSQLiteStore(cfg.DBPath)
}

// markRestoredOffset records whether this session will resume from a
// stored checkpoint.
func markRestoredOffset(path string, st store.Store) {
	fp, err := fingerprint.FromPath(path, fingerprint.DefaultPrefixSize)
	if err != nil {
		return
	}
	if _, ok, err := st.Get(fp); err == nil && ok {
		metrics.IncRestoredOffsets()
	}
}
