// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// Key interfaces:
//   - FileSystemProvider: opens directories, reads, stats and writes files
//   - Directory: a directory that can be traversed
//   - File: an individual file with metadata and content
//
// Implementations:
//   - OSFileSystem: production implementation; writes are atomic (temp file + rename)
//   - MemoryFileSystem: in-memory implementation for testing
package filesystem
