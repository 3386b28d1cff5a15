package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/seedshift/internal/config"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

const (
	envConfig = "SEEDSHIFT_CONFIG"
	envJobs   = "SEEDSHIFT_JOBS"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type rewriteFlagValues struct {
	config string
	dryRun bool
	force  bool
	jobs   int
	output string
	seed   string
}

// resolvedOptions are the effective settings of one run after flags,
// environment and defaults are merged.
type resolvedOptions struct {
	configPath string
	jobs       int
	output     string
	seed       string
}

// resolveOptions applies flag > environment > default precedence. A .env
// file in the working directory is loaded first; it never overrides
// variables already set.
func resolveOptions(cmd *cobra.Command, flags rewriteFlagValues, sourcePath string) (resolvedOptions, error) {
	_ = godotenv.Load()

	opts := resolvedOptions{
		configPath: flags.config,
		jobs:       flags.jobs,
		output:     flags.output,
		seed:       flags.seed,
	}

	if opts.configPath == "" {
		opts.configPath = os.Getenv(envConfig)
	}
	if opts.configPath == "" {
		opts.configPath = defaultConfigPath(sourcePath)
	}

	if !cmd.Flags().Changed("jobs") {
		if v := os.Getenv(envJobs); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return resolvedOptions{}, fmt.Errorf("%w: %s must be a positive integer, got %q", seedshift.ErrInvalidConfig, envJobs, v)
			}
			opts.jobs = n
		}
	}
	if opts.jobs < 1 {
		return resolvedOptions{}, fmt.Errorf("invalid argument %q for \"--jobs\" flag: must be at least 1", strconv.Itoa(opts.jobs))
	}

	switch opts.output {
	case outputTable, outputJSON:
	default:
		return resolvedOptions{}, fmt.Errorf("invalid argument %q for \"--output\" flag: want %s or %s", opts.output, outputTable, outputJSON)
	}
	return opts, nil
}

// defaultConfigPath looks for the project file next to the scripts; for a
// single-file source that is the file's directory.
func defaultConfigPath(sourcePath string) string {
	dir := sourcePath
	if info, err := os.Stat(sourcePath); err == nil && !info.IsDir() {
		dir = filepath.Dir(sourcePath)
	}
	return filepath.Join(dir, config.ConfigFileName)
}

func loadProjectConfig(configPath string) (*config.ProjectConfig, error) {
	cfg, err := config.LoadFile(configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: %s not found\n\nTip: create %s next to your scripts or pass --config",
			seedshift.ErrInvalidConfig, configPath, config.ConfigFileName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
	}
	return cfg, nil
}
