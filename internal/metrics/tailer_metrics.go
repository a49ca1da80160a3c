package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	linesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filetail",
		Name:      "lines_total",
		Help:      "Total number of log lines emitted by the tailer.",
	})
	bytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filetail",
		Name:      "bytes_total",
		Help:      "Total number of line bytes emitted (excludes separators).",
	})
	rotationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filetail",
		Name:      "rotations_total",
		Help:      "Total number of file rotations detected.",
	})
	fileNotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filetail",
		Name:      "file_not_found_total",
		Help:      "Total number of open attempts that found no file at the path.",
	})
	errorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filetail",
		Name:      "errors_total",
		Help:      "Total number of unrecoverable tailer errors.",
	})
	restoredOffsetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "filetail",
		Name:      "restored_offsets_total",
		Help:      "Total number of sessions resumed from a stored checkpoint.",
	})
)

// Register registers all filetail metrics to the provided Prometheus
// registerer. It is safe to call multiple times; AlreadyRegisteredError
// will be ignored.
func Register(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		linesTotal, bytesTotal, rotationsTotal, fileNotFoundTotal, errorsTotal, restoredOffsetsTotal,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			var alreadyRegisteredError prometheus.AlreadyRegisteredError
			if errors.As(err, &alreadyRegisteredError) {
				continue
			}
			return err
		}
	}
	return nil
}

// IncLines increments the emitted lines counter by n.
func IncLines(n int) {
	if n > 0 {
		linesTotal.Add(float64(n))
	}
}

// AddBytes adds n to the bytes counter.
func AddBytes(n int) {
	if n > 0 {
		bytesTotal.Add(float64(n))
	}
}

// IncRotations increments the rotations counter by 1.
func IncRotations() { rotationsTotal.Inc() }

// IncFileNotFound increments the file-not-found counter by 1.
func IncFileNotFound() { fileNotFoundTotal.Inc() }

// IncErrors increments the unrecoverable errors counter by 1.
func IncErrors() { errorsTotal.Inc() }

// IncRestoredOffsets increments the restored checkpoints counter by 1.
func IncRestoredOffsets() { restoredOffsetsTotal.Inc() }
