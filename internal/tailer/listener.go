package tailer

// Listener receives lines and lifecycle events from a Tailer. All callbacks
// are invoked from the tailer's own goroutine; implementations must not
// assume any other concurrency.
type Listener interface {
	// Initialize is called once during construction with the tailer that
	// owns this listener.
	Initialize(t *Tailer)

	// Handle receives one line in file order, without its terminating
	// newline, carriage return, or CRLF pair. The slice is reused and only
	// valid for the duration of the call. Returning a non-nil error stops
	// the tailer after the error is delivered to HandleError.
	Handle(line []byte) error

	// FileNotFound is called whenever an open attempt fails because the
	// file does not exist.
	FileNotFound()

	// FileRotated is called once per detected rotation, after the old file
	// is drained and before the path is reopened.
	FileRotated()

	// HandleError receives an unrecoverable error. The tailer shuts down
	// after delivery.
	HandleError(err error)
}
