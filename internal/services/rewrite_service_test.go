package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/seedshift/internal/checksum"
	"github.com/vvka-141/seedshift/internal/files/filesystem"
	"github.com/vvka-141/seedshift/internal/files/scanner"
	"github.com/vvka-141/seedshift/internal/filter"
	"github.com/vvka-141/seedshift/internal/logging"
	"github.com/vvka-141/seedshift/internal/placeholder"
	"github.com/vvka-141/seedshift/internal/rename"
	"github.com/vvka-141/seedshift/internal/retry"
	"github.com/vvka-141/seedshift/internal/rewrite"
	"github.com/vvka-141/seedshift/internal/shape"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

type mockApprover struct {
	mu       sync.Mutex
	approved bool
	err      error
	calls    [][]string
}

func (m *mockApprover) RequestApproval(_ context.Context, paths []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, paths)
	return m.approved, m.err
}

type mockFileScanner struct {
	result seedshift.FileScanResult
	err    error
}

func (m *mockFileScanner) ScanDirectory(string, seedshift.FileFilter) (seedshift.FileScanResult, error) {
	return m.result, m.err
}

const (
	familiesSeed = "INSERT INTO families (id, name) VALUES\n  ('demo-family', 'families');\n"
	circlesSeed  = "INSERT INTO circles (id, name) VALUES\n  ('demo-family', 'families');\n"
	untouched    = "INSERT INTO users (id) VALUES\n  ('user-1');\n"
	unclosed     = "INSERT INTO families (id) VALUES\n  ('x')\n"
	deniedSeed   = "INSERT INTO event_attendees (id) VALUES ('ea-1');\n"
)

type fixture struct {
	fs       *filesystem.MemoryFileSystem
	approver *mockApprover
	log      *bytes.Buffer
	svc      *RewriteService
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	engine, err := rename.Compile([]rename.Rule{
		{Pattern: "families", Replacement: "circles", Contexts: []string{"INTO", "FROM"}},
	})
	require.NoError(t, err)
	rw := rewrite.New(rewrite.Rules{
		Renames: engine,
		Deny:    filter.NewDenyList([]string{"event_attendees"}),
	})

	mfs := filesystem.NewMemoryFileSystem("/project")
	for p, content := range files {
		mfs.AddFile(p, content)
	}
	calc := checksum.New()
	f := &fixture{fs: mfs, approver: &mockApprover{approved: true}, log: &bytes.Buffer{}}
	f.svc = NewRewriteService(rw, scanner.NewScannerWithFS(calc, mfs), mfs, f.approver,
		logging.NewWriterLogger(f.log, true), calc)
	return f
}

func (f *fixture) content(t *testing.T, p string) string {
	t.Helper()
	b, err := f.fs.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func runConfig(mod func(*seedshift.RunConfig)) seedshift.RunConfig {
	cfg := seedshift.RunConfig{SourcePath: "/project", Jobs: 2}
	if mod != nil {
		mod(&cfg)
	}
	return cfg
}

func TestNewRewriteService_PanicsOnNil(t *testing.T) {
	rw := rewrite.New(rewrite.Rules{})
	mfs := filesystem.NewMemoryFileSystem("/")
	sc := &mockFileScanner{}
	ap := &mockApprover{}
	lg := logging.NewNullLogger()
	calc := checksum.New()

	tests := []struct {
		name string
		fn   func()
	}{
		{"rewriter", func() { NewRewriteService(nil, sc, mfs, ap, lg, calc) }},
		{"scanner", func() { NewRewriteService(rw, nil, mfs, ap, lg, calc) }},
		{"filesystem", func() { NewRewriteService(rw, sc, nil, ap, lg, calc) }},
		{"approver", func() { NewRewriteService(rw, sc, mfs, nil, lg, calc) }},
		{"logger", func() { NewRewriteService(rw, sc, mfs, ap, nil, calc) }},
		{"calculator", func() { NewRewriteService(rw, sc, mfs, ap, lg, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
}

func TestRun_WritesChangedFilesOnly(t *testing.T) {
	f := newFixture(t, map[string]string{
		"seed/001_families.sql": familiesSeed,
		"seed/002_users.sql":    untouched,
	})

	summary, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	require.NoError(t, err)

	assert.Equal(t, circlesSeed, f.content(t, "seed/001_families.sql"))
	assert.Equal(t, untouched, f.content(t, "seed/002_users.sql"))
	assert.Equal(t, []string{"/project/seed/001_families.sql"}, f.fs.Writes())

	assert.True(t, summary.Written)
	assert.Equal(t, 1, summary.Count(seedshift.FileUpdated))
	assert.Equal(t, 1, summary.Count(seedshift.FileUnchanged))
	assert.Equal(t, 1, summary.Report.Renamed)

	require.Len(t, f.approver.calls, 1)
	assert.Equal(t, []string{"seed/001_families.sql"}, f.approver.calls[0])
	assert.Contains(t, f.log.String(), "seed/001_families.sql: updated")
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed + deniedSeed})

	_, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	require.NoError(t, err)
	first := f.content(t, "a.sql")

	summary, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, f.content(t, "a.sql"))
	assert.False(t, summary.Written)
	assert.Equal(t, 1, summary.Count(seedshift.FileUnchanged))
	assert.Len(t, f.approver.calls, 1)
	assert.Len(t, f.fs.Writes(), 1)
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})

	summary, err := f.svc.Run(context.Background(), runConfig(func(c *seedshift.RunConfig) { c.DryRun = true }), seedshift.FileFilter{})
	require.NoError(t, err)

	assert.Equal(t, familiesSeed, f.content(t, "a.sql"))
	assert.Empty(t, f.fs.Writes())
	assert.Empty(t, f.approver.calls)
	assert.Equal(t, []string{"a.sql"}, summary.Paths(seedshift.FileUpdated))
	assert.False(t, summary.Written)
}

func TestRun_Check(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})

	summary, err := f.svc.Run(context.Background(), runConfig(func(c *seedshift.RunConfig) { c.Check = true }), seedshift.FileFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, seedshift.ErrChangesPending)
	assert.Equal(t, seedshift.ExitChangesPending, seedshift.ExitCodeForError(err))
	require.NotNil(t, summary)
	assert.Empty(t, f.fs.Writes())

	clean := newFixture(t, map[string]string{"a.sql": circlesSeed})
	_, err = clean.svc.Run(context.Background(), runConfig(func(c *seedshift.RunConfig) { c.Check = true }), seedshift.FileFilter{})
	assert.NoError(t, err)
}

func TestRun_ApprovalDenied(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})
	f.approver.approved = false

	_, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	assert.ErrorIs(t, err, seedshift.ErrApprovalDenied)
	assert.Equal(t, familiesSeed, f.content(t, "a.sql"))
	assert.Empty(t, f.fs.Writes())
}

func TestRun_ApprovalError(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})
	f.approver.err = context.Canceled

	_, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.fs.Writes())
}

func TestRun_UnclosedBlockSkipsFile(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.sql": familiesSeed,
		"b.sql": unclosed,
	})

	summary, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, seedshift.ErrFilesFailed)
	assert.Equal(t, seedshift.ExitFilesFailed, seedshift.ExitCodeForError(err))

	assert.Equal(t, circlesSeed, f.content(t, "a.sql"))
	assert.Equal(t, unclosed, f.content(t, "b.sql"))

	require.Len(t, summary.Files, 2)
	skipped := summary.Files[1]
	assert.Equal(t, seedshift.FileSkipped, skipped.Status)
	assert.ErrorIs(t, skipped.Err, seedshift.ErrUnclosedBlock)
	assert.Contains(t, f.log.String(), "[ERROR] b.sql: skipped")
}

func TestRun_WriteFailure(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.sql": familiesSeed,
		"b.sql": familiesSeed,
	})
	f.fs.FailWrite("b.sql", errors.New("disk full"))

	summary, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	assert.ErrorIs(t, err, seedshift.ErrFilesFailed)
	assert.Equal(t, circlesSeed, f.content(t, "a.sql"))
	assert.Equal(t, familiesSeed, f.content(t, "b.sql"))
	assert.Equal(t, seedshift.FileSkipped, summary.Files[1].Status)
	assert.Contains(t, summary.Files[1].Err.Error(), "disk full")
}

func TestRun_TransientWriteFailureIsRetried(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})
	f.svc.writeRetry = retry.NewExecutor(retry.NewFileErrorClassifier(),
		retry.NewExponentialBackoff(2, retry.WithInitialDelay(time.Millisecond), retry.WithJitter(0)))
	f.fs.FailWrite("a.sql", &fs.PathError{Op: "rename", Path: "/project/a.sql", Err: syscall.EBUSY})

	summary, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	assert.ErrorIs(t, err, seedshift.ErrFilesFailed)
	assert.ErrorIs(t, summary.Files[0].Err, syscall.EBUSY)
	assert.Equal(t, 2, strings.Count(f.log.String(), "a.sql: write failed"))
	assert.Equal(t, familiesSeed, f.content(t, "a.sql"))
}

func TestRun_FileModifiedDuringRun(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})
	edit := &editingApprover{fs: f.fs, path: "a.sql", content: "-- edited\n"}
	f.svc.approver = edit

	summary, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	assert.ErrorIs(t, err, seedshift.ErrFilesFailed)
	assert.ErrorIs(t, summary.Files[0].Err, errModifiedDuringRun)
	assert.Equal(t, "-- edited\n", f.content(t, "a.sql"))
}

type editingApprover struct {
	fs      *filesystem.MemoryFileSystem
	path    string
	content string
}

func (e *editingApprover) RequestApproval(context.Context, []string) (bool, error) {
	e.fs.AddFile(e.path, e.content)
	return true, nil
}

func TestRun_LayoutOnly(t *testing.T) {
	engine, err := rename.Compile([]rename.Rule{{Pattern: "users", Replacement: "USERS"}})
	require.NoError(t, err)
	mfs := filesystem.NewMemoryFileSystem("/p")
	mfs.AddFile("a.sql", untouched)
	calc := checksum.New()
	svc := NewRewriteService(rewrite.New(rewrite.Rules{Renames: engine}),
		scanner.NewScannerWithFS(calc, mfs), mfs, &mockApprover{approved: true}, logging.NewNullLogger(), calc)

	summary, err := svc.Run(context.Background(), seedshift.RunConfig{SourcePath: "/p"}, seedshift.FileFilter{})
	require.NoError(t, err)
	require.Len(t, summary.Files, 1)
	assert.Equal(t, seedshift.FileUpdated, summary.Files[0].Status)
	assert.True(t, summary.Files[0].LayoutOnly)
}

func TestRun_Warnings(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.sql": "SELECT 'open\n",
	})

	_, err := f.svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	require.NoError(t, err)
	assert.Contains(t, f.log.String(), "[WARN] a.sql:")
}

func TestRun_ScanError(t *testing.T) {
	f := newFixture(t, nil)

	summary, err := f.svc.Run(context.Background(), runConfig(func(c *seedshift.RunConfig) { c.SourcePath = "/missing" }), seedshift.FileFilter{})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, seedshift.ErrSourceNotFound)
}

func TestRun_InvalidConfig(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Run(context.Background(), seedshift.RunConfig{Jobs: -1}, seedshift.FileFilter{})
	assert.ErrorIs(t, err, seedshift.ErrInvalidConfig)
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t, map[string]string{"a.sql": familiesSeed})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Run(ctx, runConfig(nil), seedshift.FileFilter{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.fs.Writes())
}

func TestRun_ManyFilesInParallel(t *testing.T) {
	files := make(map[string]string)
	for i := range 40 {
		files[fmt.Sprintf("seed/%03d.sql", i)] = familiesSeed
	}
	f := newFixture(t, files)

	summary, err := f.svc.Run(context.Background(), runConfig(func(c *seedshift.RunConfig) { c.Jobs = 8 }), seedshift.FileFilter{})
	require.NoError(t, err)
	assert.Equal(t, 40, summary.Count(seedshift.FileUpdated))
	assert.Equal(t, 40, summary.Report.Renamed)
	assert.Len(t, f.fs.Writes(), 40)
	for i, fr := range summary.Files {
		assert.Equal(t, fmt.Sprintf("seed/%03d.sql", i), fr.RelativePath)
	}
}

func TestRun_LogsPlaceholderValues(t *testing.T) {
	m, err := placeholder.New(placeholder.DefaultGrammar(), placeholder.WithGenerator(func(p string) string {
		return "id-for-" + p
	}))
	require.NoError(t, err)

	mfs := filesystem.NewMemoryFileSystem("/project")
	mfs.AddFile("users.sql", untouched)
	calc := checksum.New()
	log := &bytes.Buffer{}
	svc := NewRewriteService(rewrite.New(rewrite.Rules{Placeholders: m}), scanner.NewScannerWithFS(calc, mfs), mfs,
		&mockApprover{approved: true}, logging.NewWriterLogger(log, true), calc)

	summary, err := svc.Run(context.Background(), runConfig(nil), seedshift.FileFilter{})
	require.NoError(t, err)

	require.Len(t, summary.Files, 1)
	v, ok := summary.Files[0].Values.Value("user-1")
	require.True(t, ok)
	assert.Equal(t, "id-for-user-1", v)
	assert.Contains(t, log.String(), "users.sql: 'user-1' -> 'id-for-user-1'")

	b, err := mfs.ReadFile("users.sql")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (id) VALUES\n  ('id-for-user-1');\n", string(b))
}

func TestRun_MismatchedBlockLeavesFileUntouched(t *testing.T) {
	in := "INSERT INTO families (a, b, c, d) VALUES\n  (1, 2, 3);\n"
	engine, err := rename.Compile([]rename.Rule{{Pattern: "families", Replacement: "circles", Contexts: []string{"INTO"}}})
	require.NoError(t, err)
	rw := rewrite.New(rewrite.Rules{
		Renames: engine,
		Tables:  map[string][]shape.Op{"circles": {shape.Remove(4)}},
	})

	mfs := filesystem.NewMemoryFileSystem("/p")
	mfs.AddFile("a.sql", in)
	calc := checksum.New()
	log := &bytes.Buffer{}
	svc := NewRewriteService(rw, scanner.NewScannerWithFS(calc, mfs), mfs,
		&mockApprover{approved: true}, logging.NewWriterLogger(log, false), calc)

	summary, err := svc.Run(context.Background(), seedshift.RunConfig{SourcePath: "/p"}, seedshift.FileFilter{})
	require.NoError(t, err)

	require.Len(t, summary.Files, 1)
	assert.Equal(t, seedshift.FileUnchanged, summary.Files[0].Status)
	assert.Empty(t, mfs.Writes())
	b, err := mfs.ReadFile("a.sql")
	require.NoError(t, err)
	assert.Equal(t, in, string(b))
	assert.Contains(t, log.String(), "[WARN] a.sql: block circles at line 1 left unchanged")
}
