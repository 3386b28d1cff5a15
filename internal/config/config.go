package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/seedshift/internal/filter"
	"github.com/vvka-141/seedshift/internal/placeholder"
	"github.com/vvka-141/seedshift/internal/rename"
	"github.com/vvka-141/seedshift/internal/rewrite"
	"github.com/vvka-141/seedshift/internal/shape"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type RenameConfig struct {
	Pattern     string   `yaml:"pattern"`
	Replacement string   `yaml:"replacement"`
	Contexts    []string `yaml:"contexts,omitempty"`
	Priority    int      `yaml:"priority,omitempty"`
	Regex       bool     `yaml:"regex,omitempty"`
}

// ColumnOpConfig is one entry of a table's ops list. Op is one of rename,
// insert_duplicate, insert_literal or remove.
type ColumnOpConfig struct {
	Op           string `yaml:"op"`
	Column       string `yaml:"column,omitempty"`
	From         string `yaml:"from,omitempty"`
	Source       *int   `yaml:"source,omitempty"`
	SourceColumn string `yaml:"source_column,omitempty"`
	At           *int   `yaml:"at,omitempty"`
	After        string `yaml:"after,omitempty"`
	Value        string `yaml:"value,omitempty"`
}

type TableConfig struct {
	Ops []ColumnOpConfig `yaml:"ops"`
}

// PlaceholderConfig enables the placeholder pass. Without tags or names the
// stock grammar is used.
type PlaceholderConfig struct {
	Tags  []string `yaml:"tags,omitempty"`
	Names []string `yaml:"names,omitempty"`
	Seed  string   `yaml:"seed,omitempty"`
}

type ProjectConfig struct {
	Extensions   []string               `yaml:"extensions,omitempty"`
	Exclude      []string               `yaml:"exclude,omitempty"`
	DenyTables   []string               `yaml:"deny_tables,omitempty"`
	Renames      []RenameConfig         `yaml:"renames,omitempty"`
	Tables       map[string]TableConfig `yaml:"tables,omitempty"`
	Placeholders *PlaceholderConfig     `yaml:"placeholders,omitempty"`
}

const ConfigFileName = seedshift.DefaultConfigFileName

// Load reads ConfigFileName from sourcePath.
func Load(sourcePath string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(sourcePath, ConfigFileName))
}

// LoadFile reads a config file at an explicit path.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", seedshift.ErrInvalidConfig, configPath, err)
	}
	return &cfg, nil
}

// FileFilter returns the file selection declared by the config, falling
// back to seedshift.DefaultExtensions.
func (c *ProjectConfig) FileFilter() seedshift.FileFilter {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = seedshift.DefaultExtensions
	}
	return seedshift.FileFilter{Extensions: exts, Exclude: c.Exclude}
}

// Compile validates the config and builds the rule set. Every problem is
// reported; the joined error wraps seedshift.ErrInvalidConfig.
func (c *ProjectConfig) Compile(opts ...placeholder.Option) (rewrite.Rules, error) {
	var errs []error
	var rules rewrite.Rules

	if len(c.Renames) > 0 {
		rr := make([]rename.Rule, len(c.Renames))
		for i, r := range c.Renames {
			rr[i] = rename.Rule{
				Pattern:     r.Pattern,
				Replacement: r.Replacement,
				Contexts:    r.Contexts,
				Priority:    r.Priority,
				Regex:       r.Regex,
			}
		}
		engine, err := rename.Compile(rr)
		if err != nil {
			errs = append(errs, err)
		}
		rules.Renames = engine
	}

	if len(c.DenyTables) > 0 {
		rules.Deny = filter.NewDenyList(c.DenyTables)
	}

	if len(c.Tables) > 0 {
		rules.Tables = make(map[string][]shape.Op, len(c.Tables))
		for _, name := range c.tableNames() {
			ops, err := compileOps(name, c.Tables[name].Ops)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			rules.Tables[name] = ops
		}
	}

	if c.Placeholders != nil {
		g := placeholder.Grammar{Tags: c.Placeholders.Tags, Names: c.Placeholders.Names}
		if g.IsZero() {
			g = placeholder.DefaultGrammar()
		}
		if c.Placeholders.Seed != "" {
			opts = append([]placeholder.Option{placeholder.WithGenerator(placeholder.SeededGenerator(c.Placeholders.Seed))}, opts...)
		}
		m, err := placeholder.New(g, opts...)
		if err != nil {
			errs = append(errs, err)
		}
		rules.Placeholders = m
	}

	if len(errs) > 0 {
		return rewrite.Rules{}, invalid(errors.Join(errs...))
	}
	return rules, nil
}

// IndexedOps lists ops that address columns only by position. Such ops are
// not safe to re-run on already rewritten scripts.
func (c *ProjectConfig) IndexedOps() []string {
	var out []string
	for _, name := range c.tableNames() {
		for _, oc := range c.Tables[name].Ops {
			if op, err := oc.toOp(); err == nil && op.IsIndexed() {
				out = append(out, fmt.Sprintf("%s: %s", name, op))
			}
		}
	}
	return out
}

func (c *ProjectConfig) tableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func compileOps(table string, cfgs []ColumnOpConfig) ([]shape.Op, error) {
	var errs []error
	ops := make([]shape.Op, 0, len(cfgs))

	for i, oc := range cfgs {
		op, err := oc.toOp()
		if err == nil {
			err = op.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("tables.%s.ops[%d]: %w", table, i, err))
			continue
		}
		ops = append(ops, op)
	}
	return ops, errors.Join(errs...)
}

func (oc ColumnOpConfig) toOp() (shape.Op, error) {
	kind := strings.ToLower(strings.TrimSpace(oc.Op))
	switch kind {
	case "rename":
		return shape.Rename(oc.From, oc.Column), nil

	case "insert_duplicate", "insert_literal":
		op := shape.Op{
			Kind:         shape.OpInsertLiteral,
			Column:       oc.Column,
			Value:        oc.Value,
			After:        oc.After,
			SourceColumn: oc.SourceColumn,
		}
		if oc.At == nil && oc.After == "" {
			return op, errors.New("insert needs at or after")
		}
		op.At = deref(oc.At)
		if kind == "insert_duplicate" {
			op.Kind = shape.OpInsertDuplicate
			if oc.Source == nil && oc.SourceColumn == "" {
				return op, errors.New("insert_duplicate needs source or source_column")
			}
			op.Source = deref(oc.Source)
		}
		return op, nil

	case "remove":
		if oc.Column != "" {
			return shape.RemoveColumn(oc.Column), nil
		}
		if oc.At == nil {
			return shape.Op{}, errors.New("remove needs column or at")
		}
		return shape.Remove(*oc.At), nil

	default:
		return shape.Op{}, fmt.Errorf("unknown op %q (want rename, insert_duplicate, insert_literal or remove)", oc.Op)
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

type invalidConfigError struct {
	err error
}

func (e *invalidConfigError) Error() string {
	return fmt.Sprintf("%s: %v", seedshift.ErrInvalidConfig, e.err)
}

func (e *invalidConfigError) Unwrap() []error {
	return []error{seedshift.ErrInvalidConfig, e.err}
}

func invalid(err error) error {
	return &invalidConfigError{err: err}
}
