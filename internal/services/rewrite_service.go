package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/seedshift/internal/checksum"
	"github.com/vvka-141/seedshift/internal/files/filesystem"
	"github.com/vvka-141/seedshift/internal/placeholder"
	"github.com/vvka-141/seedshift/internal/retry"
	"github.com/vvka-141/seedshift/internal/rewrite"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// FileResult is the outcome of one file.
type FileResult struct {
	Path         string
	RelativePath string
	Status       seedshift.FileStatus

	// LayoutOnly is set for updated files whose changes are limited to
	// whitespace, comments or letter case outside literals.
	LayoutOnly bool

	Report rewrite.Report
	Err    error

	// Values holds the placeholder assignment used for this file, if the
	// placeholder pass ran.
	Values *placeholder.Map

	text     string
	checksum string
}

// Summary aggregates a run.
type Summary struct {
	Files   []FileResult
	Report  rewrite.Report
	Written bool
}

// Count returns the number of files with status s.
func (s *Summary) Count(status seedshift.FileStatus) int {
	n := 0
	for _, f := range s.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Paths returns the relative paths of files with status s.
func (s *Summary) Paths(status seedshift.FileStatus) []string {
	var out []string
	for _, f := range s.Files {
		if f.Status == status {
			out = append(out, f.RelativePath)
		}
	}
	return out
}

// RewriteService applies one rewriter to every file of a run.
// Safe for concurrent Run calls; every run keeps its own state.
type RewriteService struct {
	rewriter    *rewrite.Rewriter
	fileScanner seedshift.FileScanner
	fsProvider  filesystem.FileSystemProvider
	approver    seedshift.Approver
	logger      seedshift.Logger
	calculator  checksum.Calculator
	writeRetry  *retry.Executor
}

// writeAttempts is the number of retries of a write failing with a
// transient error.
const writeAttempts = 3

// NewRewriteService creates a RewriteService with all dependencies injected.
// Panics on nil dependencies: these are wiring mistakes, not runtime
// conditions.
func NewRewriteService(
	rewriter *rewrite.Rewriter,
	fileScanner seedshift.FileScanner,
	fsProvider filesystem.FileSystemProvider,
	approver seedshift.Approver,
	logger seedshift.Logger,
	calculator checksum.Calculator,
) *RewriteService {
	if rewriter == nil {
		panic("rewriter cannot be nil")
	}
	if fileScanner == nil {
		panic("fileScanner cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	svc := &RewriteService{
		rewriter:    rewriter,
		fileScanner: fileScanner,
		fsProvider:  fsProvider,
		approver:    approver,
		logger:      logger,
		calculator:  calculator,
	}
	svc.writeRetry = retry.NewExecutor(retry.NewFileErrorClassifier(), retry.NewExponentialBackoff(writeAttempts))
	return svc
}

// Run rewrites every file selected by filter under cfg.SourcePath.
//
// The returned summary is non-nil whenever the scan succeeded, even when
// an error is returned. Errors:
//   - ErrChangesPending in check mode when any file would change
//   - ErrApprovalDenied when the approver declines
//   - ErrFilesFailed when at least one file was skipped or failed to write
func (s *RewriteService) Run(ctx context.Context, cfg seedshift.RunConfig, filter seedshift.FileFilter) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	scan, err := s.fileScanner.ScanDirectory(cfg.SourcePath, filter)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Found %d script file(s) under %s", len(scan.Files), cfg.SourcePath)

	summary := &Summary{Files: make([]FileResult, len(scan.Files))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, file := range scan.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary.Files[i] = s.rewriteFile(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, f := range summary.Files {
		summary.Report.Merge(f.Report)
		s.logFile(f)
	}

	updated := summary.Paths(seedshift.FileUpdated)
	switch {
	case cfg.Check:
		if len(updated) > 0 {
			return summary, fmt.Errorf("%d file(s) would be rewritten: %w", len(updated), seedshift.ErrChangesPending)
		}
	case cfg.DryRun:
		s.logger.Info("Dry run: %d file(s) would be rewritten", len(updated))
	case len(updated) > 0:
		approved, err := s.approver.RequestApproval(ctx, updated)
		if err != nil {
			return summary, fmt.Errorf("approval failed: %w", err)
		}
		if !approved {
			return summary, seedshift.ErrApprovalDenied
		}
		s.writeAll(ctx, summary)
	}

	if n := s.failures(summary); n > 0 {
		return summary, fmt.Errorf("%d file(s) left untouched: %w", n, seedshift.ErrFilesFailed)
	}
	return summary, nil
}

func (s *RewriteService) rewriteFile(file seedshift.ScriptFile) FileResult {
	res := FileResult{Path: file.Path, RelativePath: file.RelativePath, checksum: file.Checksum}

	out, err := s.rewriter.Rewrite(file.Content)
	if err != nil {
		res.Status = seedshift.FileSkipped
		res.Err = err
		return res
	}
	res.Report = out.Report
	res.Values = out.Values

	before := []byte(file.Content)
	after := []byte(out.Text)
	if s.calculator.CalculateRaw(after) == s.calculator.CalculateRaw(before) {
		res.Status = seedshift.FileUnchanged
		return res
	}
	res.Status = seedshift.FileUpdated
	res.LayoutOnly = s.calculator.CalculateNormalized(after) == s.calculator.CalculateNormalized(before)
	res.text = out.Text
	return res
}

// writeAll writes updated files in path order. A file modified on disk
// since it was scanned is skipped.
func (s *RewriteService) writeAll(ctx context.Context, summary *Summary) {
	idx := make([]int, 0, len(summary.Files))
	for i, f := range summary.Files {
		if f.Status == seedshift.FileUpdated {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		return summary.Files[idx[a]].RelativePath < summary.Files[idx[b]].RelativePath
	})

	for _, i := range idx {
		f := &summary.Files[i]
		if err := s.writeFile(ctx, f); err != nil {
			f.Status = seedshift.FileSkipped
			f.Err = err
			s.logger.Error("%s: %v", f.RelativePath, err)
			continue
		}
		summary.Written = true
		s.logger.Verbose("Wrote %s", f.RelativePath)
	}
}

var errModifiedDuringRun = errors.New("file changed on disk during the run")

func (s *RewriteService) writeFile(ctx context.Context, f *FileResult) error {
	current, err := s.fsProvider.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("failed to re-read before writing: %w", err)
	}
	if f.checksum != "" && s.calculator.CalculateRaw(current) != f.checksum {
		return errModifiedDuringRun
	}
	executor := s.writeRetry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		s.logger.Verbose("%s: write failed (%v), retry %d in %s", f.RelativePath, err, attempt+1, delay)
	})
	err = executor.Execute(ctx, func(context.Context) error {
		return s.fsProvider.WriteFile(f.Path, []byte(f.text))
	})
	if err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}

func (s *RewriteService) logFile(f FileResult) {
	for _, w := range f.Report.Warnings {
		s.logger.Warn("%s: %v", f.RelativePath, w)
	}
	for _, b := range f.Report.Skipped {
		s.logger.Warn("%s: block %s at line %d left unchanged: %v", f.RelativePath, b.Table, b.Line, b.Err)
	}
	for _, k := range f.Values.Keys() {
		v, _ := f.Values.Value(k)
		s.logger.Verbose("%s: '%s' -> '%s'", f.RelativePath, k, v)
	}
	switch f.Status {
	case seedshift.FileSkipped:
		s.logger.Error("%s: skipped: %v", f.RelativePath, f.Err)
	case seedshift.FileUpdated:
		if f.LayoutOnly {
			s.logger.Info("%s: updated (layout only)", f.RelativePath)
		} else {
			s.logger.Info("%s: updated", f.RelativePath)
		}
	default:
		s.logger.Verbose("%s: unchanged", f.RelativePath)
	}
}

func (s *RewriteService) failures(summary *Summary) int {
	return summary.Count(seedshift.FileSkipped)
}
