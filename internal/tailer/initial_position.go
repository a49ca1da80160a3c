package tailer

import (
	"fmt"
	"os"
)

// InitialPosition selects where tailing begins when no checkpoint exists
// for the file's fingerprint.
type InitialPosition int

const (
	// PositionStart begins at offset zero.
	PositionStart InitialPosition = iota
	// PositionEnd begins at the current end of the file.
	PositionEnd
)

func (p InitialPosition) String() string {
	switch p {
	case PositionEnd:
		return "end"
	default:
		return "start"
	}
}

// ParseInitialPosition converts "start" or "end" into an InitialPosition.
func ParseInitialPosition(s string) (InitialPosition, error) {
	switch s {
	case "", "start":
		return PositionStart, nil
	case "end":
		return PositionEnd, nil
	default:
		return PositionStart, fmt.Errorf("invalid initial position: %q", s)
	}
}

// offset resolves the concrete byte offset for the open file.
func (p InitialPosition) offset(f *os.File) (int64, error) {
	if p == PositionEnd {
		fi, err := f.Stat()
		if err != nil {
			return 0, err
		}
		return fi.Size(), nil
	}
	return 0, nil
}
