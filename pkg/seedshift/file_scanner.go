package seedshift

// FileScanner discovers script files to rewrite.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileScanner interface {
	// ScanDirectory recursively scans a directory and returns the script files
	// whose extension is accepted, in deterministic path order.
	ScanDirectory(sourcePath string, filter FileFilter) (FileScanResult, error)
}

// FileFilter selects which files a scan returns.
type FileFilter struct {
	// Extensions are matched case-insensitively, including the leading dot.
	Extensions []string

	// Exclude holds slash-separated glob patterns matched against the
	// relative path; matching files are skipped.
	Exclude []string
}

// FileScanResult contains the results of scanning a directory.
type FileScanResult struct {
	Files []ScriptFile
}

// ScriptFile is one discovered script with its unmodified content.
type ScriptFile struct {
	Path         string // Absolute or caller-relative path used for I/O
	RelativePath string // Unix-style path relative to the scan root
	Content      string
	Checksum     string // SHA-256 of Content as read
}
