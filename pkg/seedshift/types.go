package seedshift

import (
	"errors"
	"fmt"
)

// RunConfig contains the parameters of one batch run over a directory tree.
type RunConfig struct {
	// SourcePath is the directory (or single file) to rewrite.
	SourcePath string

	// DryRun computes and reports changes without writing any file.
	DryRun bool

	// Check behaves like DryRun and fails with ErrChangesPending when any
	// file would change.
	Check bool

	// Jobs bounds the number of files rewritten concurrently.
	Jobs int

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Jobs == 0 {
		c.Jobs = DefaultJobs
	}

	return errors.Join(errs...)
}

// FileStatus classifies the outcome of one file.
type FileStatus int

const (
	FileUnchanged FileStatus = iota // rewritten text equals the input
	FileUpdated                     // file was (or, in dry-run, would be) overwritten
	FileSkipped                     // a fatal error left the file untouched
)

// String returns a human-readable string representation of the FileStatus.
func (s FileStatus) String() string {
	switch s {
	case FileUnchanged:
		return "unchanged"
	case FileUpdated:
		return "updated"
	case FileSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}
