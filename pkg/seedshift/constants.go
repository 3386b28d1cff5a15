package seedshift

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Rewrite or check completed successfully
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration or rule set
	ExitApprovalDenied = 12 // User declined to write the rewritten files
	ExitSourceMissing  = 14 // Target path does not exist
	ExitChangesPending = 15 // check found files that would be rewritten
	ExitFilesFailed    = 16 // At least one file was left untouched because of a fatal error
)

const (
	// DefaultConfigFileName is the project file looked up in the target directory.
	DefaultConfigFileName = "seedshift.yaml"

	// DefaultJobs is the default number of files rewritten concurrently.
	DefaultJobs = 4

	// StatementTerminator ends a statement block.
	StatementTerminator = ";"
)

// DefaultExtensions lists the file extensions rewritten when the project file
// does not declare its own.
var DefaultExtensions = []string{".sql"}
