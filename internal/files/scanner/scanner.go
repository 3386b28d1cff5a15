package scanner

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/seedshift/internal/checksum"
	"github.com/vvka-141/seedshift/internal/files/filesystem"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// Scanner discovers script files in a directory tree.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided calculator and fsProvider are also thread-safe.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a new file scanner with the given checksum calculator.
// Uses OS filesystem by default.
// Panics if calculator is nil.
func NewScanner(calculator checksum.Calculator) *Scanner {
	return NewScannerWithFS(calculator, filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a new file scanner with a custom filesystem provider.
// Panics if calculator or fsProvider is nil.
func NewScannerWithFS(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// ScanDirectory returns the accepted script files under sourcePath, sorted
// by relative path. A missing source wraps seedshift.ErrSourceNotFound.
func (s *Scanner) ScanDirectory(sourcePath string, filter seedshift.FileFilter) (seedshift.FileScanResult, error) {
	info, err := s.fsProvider.Stat(sourcePath)
	if err != nil {
		return seedshift.FileScanResult{}, fmt.Errorf("%w: %s: %v", seedshift.ErrSourceNotFound, sourcePath, err)
	}
	if !info.IsDir() {
		content, err := s.fsProvider.ReadFile(sourcePath)
		if err != nil {
			return seedshift.FileScanResult{}, fmt.Errorf("failed to read %s: %w", sourcePath, err)
		}
		return seedshift.FileScanResult{Files: []seedshift.ScriptFile{
			s.scriptFile(sourcePath, filepath.ToSlash(filepath.Base(sourcePath)), content),
		}}, nil
	}

	dir, err := s.fsProvider.Open(sourcePath)
	if err != nil {
		return seedshift.FileScanResult{}, fmt.Errorf("failed to open directory: %w", err)
	}

	var files []seedshift.ScriptFile
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		relPath := filepath.ToSlash(file.RelativePath())
		if file.Info().IsDir() {
			if relPath != "." && strings.HasPrefix(file.Info().Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !acceptsExtension(filter.Extensions, file.Info().Name()) || excluded(filter.Exclude, relPath) {
			return nil
		}

		content, err := file.ReadContent()
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", relPath, err)
		}
		files = append(files, s.scriptFile(file.Path(), relPath, content))
		return nil
	})
	if err != nil {
		return seedshift.FileScanResult{}, err
	}

	return seedshift.FileScanResult{Files: files}, nil
}

func (s *Scanner) scriptFile(filePath, relPath string, content []byte) seedshift.ScriptFile {
	return seedshift.ScriptFile{
		Path:         filePath,
		RelativePath: relPath,
		Content:      string(content),
		Checksum:     s.calculator.CalculateRaw(content),
	}
}

func acceptsExtension(exts []string, name string) bool {
	if len(exts) == 0 {
		exts = seedshift.DefaultExtensions
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// excluded matches relPath against slash globs. A pattern ending in "/**"
// matches everything below that directory.
func excluded(patterns []string, relPath string) bool {
	for _, p := range patterns {
		p = strings.TrimPrefix(filepath.ToSlash(p), "./")
		if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(p, relPath); ok {
			return true
		}
		if ok, _ := path.Match(p, path.Base(relPath)); ok && !strings.Contains(p, "/") {
			return true
		}
	}
	return false
}

// Verify Scanner implements the interface at compile time
var _ seedshift.FileScanner = (*Scanner)(nil)
