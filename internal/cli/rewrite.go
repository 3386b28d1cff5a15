package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/seedshift/internal/checksum"
	"github.com/vvka-141/seedshift/internal/files/filesystem"
	"github.com/vvka-141/seedshift/internal/files/scanner"
	"github.com/vvka-141/seedshift/internal/logging"
	"github.com/vvka-141/seedshift/internal/placeholder"
	"github.com/vvka-141/seedshift/internal/rewrite"
	"github.com/vvka-141/seedshift/internal/services"
	"github.com/vvka-141/seedshift/internal/ui"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <source_path>",
	Short: "Apply the configured rules to every script under a path",
	Long: `Rewrite applies the rules of seedshift.yaml to every script under source_path.

Passes, per file:
1. Statements of deny-listed tables are removed
2. Rename rules rewrite identifiers outside literals
3. Column operations reshape the header and every value row of each table
4. Placeholder literals are replaced with fresh UUIDs

A file is written only when its content changes and every pass succeeded.
A block whose rows do not line up with its header is left as written and
reported; a file with an unclosed statement is left untouched.

Arguments:
  source_path    Directory (or single file) holding the scripts

Examples:
  # Preview the changes
  seedshift rewrite ./db/seed --dry-run

  # Rewrite without prompting (CI)
  seedshift rewrite ./db/seed --force

  # Reproducible placeholder values and a JSON report
  seedshift rewrite ./db/seed --seed fixtures-v2 --output json`,
	Args: RequireSourcePath,
	RunE: runRewrite,
}

var checkCmd = &cobra.Command{
	Use:   "check <source_path>",
	Short: "Fail when any script would be rewritten",
	Long: `Check runs every pass without writing and exits with code 15 when at
least one file would change. Use it in CI to verify that scripts are current.

Example:
  seedshift check ./db/seed`,
	Args: RequireSourcePath,
	RunE: runCheck,
}

var rewriteFlags rewriteFlagValues

func init() {
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(checkCmd)

	for _, cmd := range []*cobra.Command{rewriteCmd, checkCmd} {
		cmd.Flags().StringVarP(&rewriteFlags.config, "config", "c", "",
			"Path to the project file\n"+
				"Precedence: --config > $SEEDSHIFT_CONFIG > <source_path>/seedshift.yaml")
		cmd.Flags().IntVarP(&rewriteFlags.jobs, "jobs", "j", seedshift.DefaultJobs,
			"Number of files rewritten concurrently\n"+
				"Precedence: --jobs > $SEEDSHIFT_JOBS > default")
		cmd.Flags().StringVarP(&rewriteFlags.output, "output", "o", outputTable,
			"Report format: table|json")
		cmd.Flags().StringVar(&rewriteFlags.seed, "seed", "",
			"Derive placeholder values from this seed instead of random UUIDs\n"+
				"Same seed and placeholder always give the same value")
	}

	rewriteCmd.Flags().BoolVar(&rewriteFlags.dryRun, "dry-run", false,
		"Report what would change without writing any file")
	rewriteCmd.Flags().BoolVar(&rewriteFlags.force, "force", false,
		"Write without the interactive confirmation")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	return execute(cmd, args[0], false)
}

func runCheck(cmd *cobra.Command, args []string) error {
	return execute(cmd, args[0], true)
}

func execute(cmd *cobra.Command, sourcePath string, check bool) error {
	verbose := getVerboseFlag(cmd)

	opts, err := resolveOptions(cmd, rewriteFlags, sourcePath)
	if err != nil {
		return err
	}

	projectCfg, err := loadProjectConfig(opts.configPath)
	if err != nil {
		return err
	}

	var placeholderOpts []placeholder.Option
	if opts.seed != "" {
		placeholderOpts = append(placeholderOpts, placeholder.WithGenerator(placeholder.SeededGenerator(opts.seed)))
	}
	rules, err := projectCfg.Compile(placeholderOpts...)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	logger.Verbose("Using %s", opts.configPath)
	for _, op := range projectCfg.IndexedOps() {
		logger.Verbose("%s addresses a column by position and must not run twice on the same scripts", op)
	}

	// Select approver implementation based on --force flag
	var approver seedshift.Approver
	if rewriteFlags.force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	calc := checksum.New()
	fsProvider := filesystem.NewOSFileSystem()
	svc := services.NewRewriteService(
		rewrite.New(rules),
		scanner.NewScannerWithFS(calc, fsProvider),
		fsProvider,
		approver,
		logger,
		calc,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := svc.Run(ctx, seedshift.RunConfig{
		SourcePath: sourcePath,
		DryRun:     rewriteFlags.dryRun || check,
		Check:      check,
		Jobs:       opts.jobs,
		Verbose:    verbose,
	}, projectCfg.FileFilter())

	if summary != nil {
		if err := renderSummary(cmd.OutOrStdout(), summary, opts.output); err != nil {
			return err
		}
	}
	return runErr
}
