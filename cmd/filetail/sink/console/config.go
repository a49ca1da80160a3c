package console

import "fmt"

// Config selects the output stream of the console sink.
type Config struct {
	Stream string `mapstructure:"stream"` // stdout or stderr
}

func (c Config) Validate() error {
	if c.Stream != "" && c.Stream != "stdout" && c.Stream != "stderr" {
		return fmt.Errorf("sink.console.stream must be 'stdout' or 'stderr'")
	}
	return nil
}
