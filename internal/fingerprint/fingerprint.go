package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultPrefixSize is the number of leading bytes hashed to identify a file.
// Checkpoints are keyed by this digest, so changing it orphans stored offsets.
const DefaultPrefixSize = 512

// Compute hashes the first n bytes of r and returns the digest as a
// lowercase hexadecimal string. The current position of r is restored
// before returning.
//
// A file shorter than n bytes has no identity yet; this is reported as a
// ShortFileError so callers can fall back to size/time based signals.
func Compute(r io.ReadSeeker, n int64) (string, error) {
	if n <= 0 {
		return "", errors.New("prefix size must be positive")
	}

	old, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", err
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return "", err
	}
	if size < n {
		if _, err := r.Seek(old, io.SeekStart); err != nil {
			return "", err
		}
		return "", &ShortFileError{Required: n, Actual: size}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	h := md5.New()
	if _, err := io.CopyN(h, r, n); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// Concurrent truncation between the size check and the read.
			_, _ = r.Seek(old, io.SeekStart)
			return "", &ShortFileError{Required: n, Actual: size}
		}
		return "", fmt.Errorf("failed to hash file prefix: %w", err)
	}

	if _, err := r.Seek(old, io.SeekStart); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FromPath opens path and computes the prefix digest of its first n bytes.
func FromPath(path string, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open file: %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Compute(f, n)
}
