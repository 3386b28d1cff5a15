// Package scanner discovers the script files a run rewrites.
//
// A scan walks the source directory in path order, keeps files whose
// extension is accepted, drops paths matching an exclude glob and skips
// hidden directories. Pointing a scan at a single file returns just that
// file. The scanner is filesystem-agnostic through
// filesystem.FileSystemProvider, so tests run against an in-memory tree.
package scanner
