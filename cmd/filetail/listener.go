package main

import (
	"log/slog"

	"github.com/loykin/filetail/cmd/filetail/sink/common"
	"github.com/loykin/filetail/internal/metrics"
	"github.com/loykin/filetail/internal/multiline"
	"github.com/loykin/filetail/internal/tailer"
)

// sinkListener forwards tailer output into a sink, optionally through a
// multiline assembler, and reports lifecycle events via slog and metrics.
// A fatal tailer error is handed to onFatal for the supervisor loop.
type sinkListener struct {
	file      string
	sink      common.Sink
	assembler *multiline.Assembler
	onFatal   func(error)
	onLine    func()
}

func (l *sinkListener) Initialize(t *tailer.Tailer) {
	slog.Debug("tailer initialized", "file", t.File())
}

func (l *sinkListener) Handle(line []byte) error {
	metrics.IncLines(1)
	metrics.AddBytes(len(line))
	if l.assembler != nil {
		l.assembler.Write(line)
	} else {
		l.sink.Enqueue(string(line))
	}
	if l.onLine != nil {
		l.onLine()
	}
	return nil
}

func (l *sinkListener) FileNotFound() {
	slog.Debug("file not found", "file", l.file)
	metrics.IncFileNotFound()
}

func (l *sinkListener) FileRotated() {
	slog.Info("file rotated", "file", l.file)
	metrics.IncRotations()
}

func (l *sinkListener) HandleError(err error) {
	slog.Error("tailer failed", "file", l.file, "error", err)
	metrics.IncErrors()
	if l.onFatal != nil {
		l.onFatal(err)
	}
}
