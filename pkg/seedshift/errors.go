package seedshift

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	result, err := svc.Run(ctx, cfg)
//	if errors.Is(err, seedshift.ErrChangesPending) {
//	    // check mode found files that would be rewritten
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceNotFound indicates the directory or file to rewrite does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrUnterminatedLiteral is a recoverable warning: a line ended inside a
	// quoted literal and its tail was treated as literal text.
	ErrUnterminatedLiteral = errors.New("unterminated literal")

	// ErrHeaderWithoutColumnList indicates a row-producing statement without an
	// explicit column list was targeted by column operations.
	ErrHeaderWithoutColumnList = errors.New("header without column list")

	// ErrRowColumnCountMismatch indicates a value row does not line up with its
	// header, or a column operation addressed a position the row does not have.
	ErrRowColumnCountMismatch = errors.New("row column count mismatch")

	// ErrUnclosedBlock indicates the document ended inside a statement block.
	ErrUnclosedBlock = errors.New("unclosed block at end of document")

	// ErrAmbiguousRenameOrder indicates two rename rules of equal priority can
	// match the same identifier in overlapping contexts.
	ErrAmbiguousRenameOrder = errors.New("ambiguous rename order")

	// ErrApprovalDenied indicates the user declined to write the rewritten files.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrChangesPending indicates check mode found files that would change.
	ErrChangesPending = errors.New("changes pending")

	// ErrFilesFailed indicates at least one file could not be rewritten.
	ErrFilesFailed = errors.New("one or more files failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrAmbiguousRenameOrder):
		return ExitConfigError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrChangesPending):
		return ExitChangesPending
	case errors.Is(err, ErrFilesFailed):
		return ExitFilesFailed
	}

	// cobra reports argument and flag misuse as plain errors
	errStr := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}

var usageErrorPrefixes = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"missing required argument",
}
