// Package tailer follows a single append-only log file, emitting each
// newline-terminated line to a listener. It survives rename-recreate
// rotations (and, partially, copy-truncate) and resumes across process
// restarts by checkpointing its read offset in a PositionStore keyed by a
// fingerprint of the file's prefix.
package tailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/loykin/filetail/internal/fingerprint"
)

const (
	// requiredBytesForHash is the prefix length that establishes a file's
	// identity. Files shorter than this have no fingerprint yet.
	requiredBytesForHash = fingerprint.DefaultPrefixSize

	// initialBufferSize is the size of the read buffer.
	initialBufferSize = 65536
)

// hashComparison is the outcome of comparing the held file's prefix digest
// against the file currently at the path.
type hashComparison int

const (
	hashUnknown hashComparison = iota
	hashEqual
	hashDiffer
)

// Tailer follows one file. Create it with New, drive it with Run, and stop
// it with Stop or by cancelling the context passed to Run. The Tailer owns
// its buffers and the open file handle; the PositionStore, Listener, and
// Trigger are shared with the creator.
type Tailer struct {
	file            string
	store           PositionStore
	listener        Listener
	trigger         Trigger
	grace           Trigger
	initialPosition InitialPosition

	// hash is the fingerprint of the currently open file; empty means the
	// file is still too short to have an identity.
	hash    string
	readBuf []byte
	lineBuf bytes.Buffer

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New validates cfg and constructs a Tailer. The listener's Initialize
// callback runs before New returns.
func New(cfg Config) (*Tailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ReadInterval == 0 {
		cfg.ReadInterval = DefaultReadInterval
	}
	trigger := cfg.Trigger
	if trigger == nil {
		trigger = &TimerTrigger{Interval: cfg.ReadInterval}
	}
	grace := trigger
	if cfg.RotationGrace > 0 {
		grace = &TimerTrigger{Interval: cfg.RotationGrace}
	}

	t := &Tailer{
		file:            cfg.File,
		store:           cfg.PositionStore,
		listener:        cfg.Listener,
		trigger:         trigger,
		grace:           grace,
		initialPosition: cfg.InitialPosition,
		readBuf:         make([]byte, initialBufferSize),
		stopCh:          make(chan struct{}),
	}
	t.running.Store(true)
	t.listener.Initialize(t)
	return t, nil
}

// File returns the path this tailer follows.
func (t *Tailer) File() string { return t.file }

// Stop requests termination. It is observed at the top of the read loop
// and inside any trigger wait.
func (t *Tailer) Stop() {
	t.running.Store(false)
	t.stopOnce.Do(func() { close(t.stopCh) })
}

func (t *Tailer) isRunning() bool { return t.running.Load() }

// Run drives the tailer until Stop is called, ctx is cancelled, or an
// unrecoverable error occurs. Errors are delivered to the listener's
// HandleError before Run returns; cancellation is a clean exit and is not
// reported. The position store and line buffer are released on the way out.
func (t *Tailer) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-t.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer func() {
		t.lineBuf.Reset()
		if err := t.store.Close(); err != nil {
			slog.Warn("failed to close position store", "file", t.file, "error", err)
		}
	}()

	if err := t.fileLoop(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		t.listener.HandleError(err)
		t.Stop()
	}
}

// fileLoop is the outer state machine: open the file by path, resume from
// a checkpoint, hand control to the read loop, and start over whenever the
// read loop reports a rotation.
func (t *Tailer) fileLoop(ctx context.Context) error {
	nextInitial := t.initialPosition
	var f *os.File
	defer func() {
		if f != nil {
			_ = f.Close()
		}
		t.hash = ""
	}()

	for t.isRunning() {
		var err error
		f, err = os.Open(t.file)
		if err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			f = nil
			t.listener.FileNotFound()
			if werr := t.trigger.Wait(ctx); werr != nil {
				return werr
			}
			continue
		}
		slog.Debug("opened file", "file", t.file)

		pos, err := nextInitial.offset(f)
		if err != nil {
			return err
		}
		// Any subsequent opens in this session start at the beginning.
		nextInitial = PositionStart

		t.hash, err = t.computeHash(f, requiredBytesForHash)
		if err != nil {
			return err
		}
		if t.hash != "" {
			stored, ok, gerr := t.store.Get(t.hash)
			if gerr != nil {
				slog.Warn("failed to load checkpoint", "file", t.file, "fingerprint", t.hash, "error", gerr)
			} else if ok {
				pos = stored
			}
		}
		slog.Debug("starting tail", "file", t.file, "position", pos)
		if _, err := f.Seek(pos, io.SeekStart); err != nil {
			return err
		}

		err = t.readLoop(ctx, f)

		_ = f.Close()
		f = nil
		t.hash = ""
		if err != nil {
			return err
		}
	}
	return nil
}

// readLoop polls the file, decides between reading and rotating, and keeps
// the checkpoint current. It returns nil after signalling a rotation (or
// when stopped), handing control back to the file loop.
//
// Limitation: while the held file ends in a line without a newline, every
// poll re-reads that partial line and reports data, so a same-length
// replacement of such a file is not detected as a rotation.
func (t *Tailer) readLoop(ctx context.Context, f *os.File) error {
	// Modification time observed at the last actual read; negative means
	// no read has happened yet.
	var lastChecked int64 = -1
	// Prefix digest captured for the held file while it is still shorter
	// than the identity prefix.
	var prefixHash string
	var prefixLen int64

	for t.isRunning() {
		attrs, err := readAttributes(t.file, lastChecked)
		if err != nil {
			if os.IsNotExist(err) {
				// Raced with a rotation between open and stat.
				return t.rotate(ctx, f, "attributes no longer readable")
			}
			return err
		}

		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		fi, err := f.Stat()
		if err != nil {
			return err
		}
		size := fi.Size()

		switch {
		case attrs.Length < pos:
			// The file at the path cannot be the one we hold.
			slog.Debug("rotation detected: length below position",
				"file", t.file, "length", attrs.Length, "position", pos, "size", size)
			return t.rotate(ctx, f, "length below position")

		case size > pos:
			hadData, rerr := t.readLines(f)
			if rerr != nil {
				return rerr
			}
			if !hadData {
				// The size check was satisfied by the replacement file,
				// not the one we hold: rotation from a shorter (for
				// example empty) file.
				slog.Debug("rotation detected: no data despite size",
					"file", t.file, "length", attrs.Length, "position", pos)
				return t.rotate(ctx, nil, "no data despite size")
			}
			lastChecked = modifiedMillis(t.file)

		case attrs.Newer:
			// Same length but modified since the last read. Typical of
			// periodic systems rewriting identical amounts of content.
			slog.Debug("rotation detected: equal length but newer",
				"file", t.file, "length", attrs.Length, "position", pos)
			return t.rotate(ctx, nil, "equal length but newer")

		default:
			// Same size, same timestamp. Timestamps are coarse on many
			// filesystems, so compare prefix digests to be sure.
			if t.compareWithPathPrefix(prefixHash, prefixLen) == hashDiffer {
				slog.Debug("rotation detected: prefix hash differs", "file", t.file)
				return t.rotate(ctx, nil, "prefix hash differs")
			}
			// Equal or undecidable: wait for length and size to diverge.
		}

		// Capture a prefix digest of the held file until it grows an
		// identity, so same-length rotations of short files are still
		// detectable.
		if t.hash == "" {
			prefixLen = min(size, int64(requiredBytesForHash))
			prefixHash, err = t.computeHash(f, prefixLen)
			if err != nil {
				return err
			}
		}

		if err := t.trigger.Wait(ctx); err != nil {
			return err
		}

		pos, err = f.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		t.updateCheckpoint(pos)
	}
	return nil
}

// rotate drains late writes to the held file when one is still open, then
// notifies the listener. The caller returns to the file loop afterwards.
func (t *Tailer) rotate(ctx context.Context, f *os.File, reason string) error {
	if f != nil {
		if err := t.grace.Wait(ctx); err != nil {
			return err
		}
		if _, err := t.readLines(f); err != nil {
			return err
		}
	}
	t.listener.FileRotated()
	slog.Debug("file rotated", "file", t.file, "reason", reason)
	return nil
}

// readLines consumes available bytes from f and cuts them into lines at
// \n, \r, or \r\n boundaries. A bare \r may either terminate a line or
// introduce \r\n; the decision is deferred until the following byte. After
// the read, f is rewound to the byte after the last completed line so a
// partial trailing line is re-read next time. Returns whether any byte was
// read.
func (t *Tailer) readLines(f *os.File) (bool, error) {
	if t.hash == "" {
		fi, err := f.Stat()
		if err != nil {
			return false, err
		}
		if fi.Size() >= requiredBytesForHash {
			t.hash, err = t.computeHash(f, requiredBytesForHash)
			if err != nil {
				return false, err
			}
		}
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}
	// The next read position is always the beginning of a line.
	nextReadPos := pos

	t.lineBuf.Reset()
	hasData := false
	hasCR := false

	for t.isRunning() {
		n, rerr := f.Read(t.readBuf)
		if n > 0 {
			hasData = true
			for i := 0; i < n; i++ {
				switch ch := t.readBuf[i]; ch {
				case '\n':
					hasCR = false
					if err := t.emitLine(); err != nil {
						return hasData, err
					}
					nextReadPos = pos + int64(i) + 1
					t.updateCheckpoint(nextReadPos)
				case '\r':
					if hasCR {
						t.lineBuf.WriteByte('\r')
					}
					hasCR = true
				default:
					if hasCR {
						hasCR = false
						if err := t.emitLine(); err != nil {
							return hasData, err
						}
						// This byte starts the next line.
						nextReadPos = pos + int64(i)
						t.updateCheckpoint(nextReadPos)
					}
					t.lineBuf.WriteByte(ch)
				}
			}
			pos += int64(n)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return hasData, rerr
		}
	}

	if _, err := f.Seek(nextReadPos, io.SeekStart); err != nil {
		return hasData, err
	}
	return hasData, nil
}

// emitLine hands the assembled line to the listener and resets the buffer.
func (t *Tailer) emitLine() error {
	err := t.listener.Handle(t.lineBuf.Bytes())
	t.lineBuf.Reset()
	return err
}

// compareWithPathPrefix hashes the prefix of the file currently at the path
// and compares it against the held file's identity, or against the shorter
// prefix digest captured while the held file had no identity yet. Absent
// digests on either side are undecidable, never a rotation.
func (t *Tailer) compareWithPathPrefix(prefixHash string, prefixLen int64) hashComparison {
	held := t.hash
	appliedLen := int64(requiredBytesForHash)
	if held == "" {
		held = prefixHash
		appliedLen = prefixLen
	}
	if held == "" || appliedLen <= 0 {
		return hashUnknown
	}
	onDisk, err := fingerprint.FromPath(t.file, appliedLen)
	if err != nil {
		// Includes short files: not enough data at the path to decide.
		return hashUnknown
	}
	if onDisk == held {
		return hashEqual
	}
	return hashDiffer
}

// computeHash returns the prefix digest of r, or the empty string when the
// file is too short to have one. Only real I/O failures are errors.
func (t *Tailer) computeHash(r io.ReadSeeker, n int64) (string, error) {
	if n <= 0 {
		return "", nil
	}
	h, err := fingerprint.Compute(r, n)
	if err != nil {
		if fingerprint.IsShortFile(err) {
			return "", nil
		}
		return "", err
	}
	return h, nil
}

// updateCheckpoint persists the read position for the current identity. A
// failed write degrades restart fidelity, not in-session delivery, so it
// is logged and tailing continues.
func (t *Tailer) updateCheckpoint(pos int64) {
	if t.hash == "" {
		return
	}
	if err := t.store.Set(t.hash, pos); err != nil {
		slog.Error("failed to persist checkpoint",
			"file", t.file, "fingerprint", t.hash, "offset", pos, "error", err)
	}
}
