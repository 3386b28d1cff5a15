package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File represents an individual file with its metadata and content accessor
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the slash-separated path relative to the walked root
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// ReadContent returns the file's content
	ReadContent() ([]byte, error)
}

// Directory represents a directory that can be traversed to discover files
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk visits every file and directory below the directory in lexical
	// order. Returning fs.SkipDir from fn for a directory skips its contents;
	// any other error stops the walk.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider gives access to script files.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of an existing file. Readers observe
	// either the old or the new content, never a mix. The file mode is kept.
	WriteFile(path string, content []byte) error

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
