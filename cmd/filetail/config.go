package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/loykin/filetail/cmd/filetail/sink/clickhouse"
	"github.com/loykin/filetail/cmd/filetail/sink/console"
	"github.com/loykin/filetail/cmd/filetail/sink/file"
	"github.com/loykin/filetail/cmd/filetail/sink/opensearch"
	"github.com/loykin/filetail/internal/multiline"
	"github.com/loykin/filetail/internal/tailer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// StoreConfig selects the checkpoint store backend.
type StoreConfig struct {
	Type       string `mapstructure:"type"` // "sqlite" or "memory"
	DBPath     string `mapstructure:"db-path"`
	MaxEntries int    `mapstructure:"max-entries"` // memory store bound
}

// TailerConfig holds the core tailer options.
type TailerConfig struct {
	File            string        `mapstructure:"file"`
	ReadInterval    time.Duration `mapstructure:"read-interval"`
	InitialPosition string        `mapstructure:"initial-position"` // "start" or "end"
	RotationGrace   time.Duration `mapstructure:"rotation-grace"`
	Store           StoreConfig   `mapstructure:"store"`
}

// MultilineConfig holds optional sink-side record assembly options.
type MultilineConfig struct {
	Enable           bool          `mapstructure:"enable"`
	Mode             string        `mapstructure:"mode"`
	StartPattern     string        `mapstructure:"start-pattern"`
	ConditionPattern string        `mapstructure:"condition-pattern"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// SinkConfig holds forwarding configuration and nested backend settings.
type SinkConfig struct {
	Type          string            `mapstructure:"type"` // "console", "file", "clickhouse", "opensearch"
	Include       []string          `mapstructure:"include"`
	Exclude       []string          `mapstructure:"exclude"`
	BatchSize     int               `mapstructure:"batch-size"`
	BatchInterval time.Duration     `mapstructure:"batch-interval"`
	Host          string            `mapstructure:"host"`   // override host; default os.Hostname()
	Labels        map[string]string `mapstructure:"labels"` // optional key-value labels

	Console    console.Config    `mapstructure:"console"`
	File       file.Config       `mapstructure:"file"`
	ClickHouse clickhouse.Config `mapstructure:"clickhouse"`
	OpenSearch opensearch.Config `mapstructure:"opensearch"`
}

// PrometheusConfig holds metrics endpoint options.
type PrometheusConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
}

// Config holds all configuration options for the filetail application.
type Config struct {
	// Optional config file path (flag/env only)
	ConfigFile string

	Tailer     TailerConfig     `mapstructure:"tailer"`
	Multiline  MultilineConfig  `mapstructure:"multiline"`
	Sink       SinkConfig       `mapstructure:"sink"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// LoadFromViper binds flags to viper, reads file/env, and populates the
// Config fields via mapstructure.
func (c *Config) LoadFromViper(cmd *cobra.Command) error {
	v := viper.GetViper()
	v.SetEnvPrefix("FILETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Determine config file path: --config flag or FILETAIL_CONFIG env
	if c.ConfigFile == "" {
		c.ConfigFile = v.GetString("config")
	}
	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return err
	}
	return nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Tailer: TailerConfig{
			ReadInterval:    tailer.DefaultReadInterval,
			InitialPosition: "start",
			Store: StoreConfig{
				Type:   "sqlite",
				DBPath: "filetail.db",
			},
		},
		Multiline: MultilineConfig{
			Mode:    multiline.ModeContinueThrough,
			Timeout: 5 * time.Second,
		},
		Sink: SinkConfig{
			Type:          "console",
			Include:       []string{},
			Exclude:       []string{},
			BatchSize:     200,
			BatchInterval: 2 * time.Second,
			Labels:        map[string]string{},
			Console:       console.Config{Stream: "stdout"},
		},
		Prometheus: PrometheusConfig{Enable: false, Addr: ":2112"},
	}
}

// SetupFlags adds all command line flags to the provided cobra command.
func (c *Config) SetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to config file (yaml/json/toml)")

	cmd.Flags().StringVarP(&c.Tailer.File, "file", "f", c.Tailer.File, "Path of the log file to tail")
	cmd.Flags().DurationVarP(&c.Tailer.ReadInterval, "read-interval", "i", c.Tailer.ReadInterval, "Interval between polls of the file")
	cmd.Flags().StringVarP(&c.Tailer.InitialPosition, "initial-position", "p", c.Tailer.InitialPosition, "Where to start when no checkpoint exists (start or end)")
	cmd.Flags().DurationVar(&c.Tailer.RotationGrace, "rotation-grace", c.Tailer.RotationGrace, "Extra wait to drain a rotated-away file (0 reuses the read interval)")
	cmd.Flags().StringVar(&c.Tailer.Store.Type, "store", c.Tailer.Store.Type, "Checkpoint store backend (sqlite or memory)")
	cmd.Flags().StringVar(&c.Tailer.Store.DBPath, "db-path", c.Tailer.Store.DBPath, "Path to the checkpoint SQLite DB")

	// Sink-related options are intentionally not exposed as command-line
	// flags. Configure sink forwarding (type, filters, batching, and
	// backend credentials) in the config file; environment variables
	// (FILETAIL_SINK_TYPE, FILETAIL_SINK_CLICKHOUSE_ADDR, etc.) override
	// the keys that the config file sets.

	cmd.Flags().BoolVar(&c.Prometheus.Enable, "prometheus.enable", c.Prometheus.Enable, "Enable Prometheus metrics HTTP endpoint")
	cmd.Flags().StringVar(&c.Prometheus.Addr, "prometheus.addr", c.Prometheus.Addr, "Prometheus metrics listen address (e.g., :2112)")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Tailer.File == "" {
		return fmt.Errorf("tailer.file is required")
	}
	if _, err := tailer.ParseInitialPosition(c.Tailer.InitialPosition); err != nil {
		return err
	}
	switch c.Tailer.Store.Type {
	case "", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid tailer.store.type: %s", c.Tailer.Store.Type)
	}
	if c.Tailer.Store.Type != "memory" && c.Tailer.Store.DBPath == "" {
		return fmt.Errorf("tailer.store.db-path must be set for the sqlite store")
	}

	if c.Multiline.Enable {
		ml := multiline.Config{
			Mode:             c.Multiline.Mode,
			StartPattern:     c.Multiline.StartPattern,
			ConditionPattern: c.Multiline.ConditionPattern,
			Timeout:          c.Multiline.Timeout,
		}
		if err := ml.Validate(); err != nil {
			return err
		}
	}

	switch c.Sink.Type {
	case "", "console", "file", "clickhouse", "opensearch":
	default:
		return fmt.Errorf("invalid sink.type: %s", c.Sink.Type)
	}
	if c.Sink.Type != "" {
		if c.Sink.BatchSize <= 0 {
			return fmt.Errorf("sink.batch-size must be > 0")
		}
		if c.Sink.BatchInterval <= 0 {
			return fmt.Errorf("sink.batch-interval must be > 0")
		}
		switch c.Sink.Type {
		case "console":
			return c.Sink.Console.Validate()
		case "file":
			return c.Sink.File.Validate()
		case "clickhouse":
			return c.Sink.ClickHouse.Validate()
		case "opensearch":
			return c.Sink.OpenSearch.Validate()
		}
	}
	return nil
}
