// Package files groups script discovery and file access.
//
// Sub-packages:
//   - filesystem: OS and in-memory providers for reading, walking and writing scripts
//   - scanner: discovers script files under a source directory
//
// # Usage
//
//	fsys := filesystem.NewOSFileSystem()
//	fileScanner := scanner.NewScannerWithFS(fsys)
//	result, err := fileScanner.ScanDirectory("./seed", seedshift.FileFilter{Extensions: []string{".sql"}})
package files
