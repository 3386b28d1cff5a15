package retry

import (
	"errors"
	"io/fs"
	"runtime"
	"syscall"
)

// FileErrorClassifier treats errors caused by another process briefly
// holding a file as transient.
type FileErrorClassifier struct {
	goos string
}

// NewFileErrorClassifier creates a classifier for the current platform.
func NewFileErrorClassifier() *FileErrorClassifier {
	return &FileErrorClassifier{goos: runtime.GOOS}
}

var transientErrnos = []syscall.Errno{
	syscall.EBUSY,
	syscall.EAGAIN,
	syscall.EINTR,
	syscall.ETXTBSY,
}

// IsTransient reports whether err is worth retrying.
func (c *FileErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	// Windows refuses to replace a file another process has open.
	if c.goos == "windows" && errors.Is(err, fs.ErrPermission) {
		return true
	}
	return false
}
