package tailer

import "os"

// Attributes is an immutable snapshot of the tailed path's metadata.
// Newer is true iff the modification time strictly exceeds the caller's
// lastChecked timestamp.
type Attributes struct {
	Length             int64
	LastModifiedMillis int64
	Newer              bool
}

// readAttributes stats path and compares its modification time against
// lastChecked, in milliseconds since the epoch. A negative lastChecked
// means "never checked" and always yields Newer == false.
func readAttributes(path string, lastChecked int64) (Attributes, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Attributes{}, err
	}
	mod := fi.ModTime().UnixMilli()
	return Attributes{
		Length:             fi.Size(),
		LastModifiedMillis: mod,
		Newer:              lastChecked >= 0 && mod > lastChecked,
	}, nil
}

// modifiedMillis returns the path's modification time in milliseconds, or
// zero when the path cannot be examined.
func modifiedMillis(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.ModTime().UnixMilli()
}
