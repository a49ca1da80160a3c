package fingerprint

import (
	"errors"
	"fmt"
)

// ShortFileError indicates the file does not yet contain enough bytes to
// compute a prefix digest.
type ShortFileError struct {
	Required int64
	Actual   int64
}

func (e *ShortFileError) Error() string {
	return fmt.Sprintf("file too short for fingerprint: need %d bytes, have %d", e.Required, e.Actual)
}

// IsShortFile determines if the provided error is of type ShortFileError.
func IsShortFile(err error) bool {
	var shortErr *ShortFileError
	return errors.As(err, &shortErr)
}
