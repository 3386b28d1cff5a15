// Package shape keeps a header's column list and its value rows in
// lock-step while columns are renamed, inserted or removed.
//
// Apply is a pure reducer: it takes the current column names, the
// positional items of every row and an ordered op list, and returns new
// slices. Each op's indexes resolve against the list produced by the
// previous op. Rows that do not line up with the header are rejected
// before any op runs.
package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vvka-141/seedshift/internal/lexer"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// OpKind tags the variant of an Op.
type OpKind int

const (
	OpRename OpKind = iota
	OpInsertDuplicate
	OpInsertLiteral
	OpRemove
)

// Op is one declared column mutation. Index fields are 0-based.
//
// Ops may address columns by name instead of index: Remove with Column set,
// InsertDuplicateOf with SourceColumn set, inserts with After set. Named
// forms are idempotent: inserting a column that already exists, or
// removing/renaming one that is absent, is skipped.
type Op struct {
	Kind OpKind

	// Column is the new name for Rename, the inserted column's name for
	// inserts, and the column to drop for a named Remove.
	Column string

	// From is the current name of the column a Rename targets.
	From string

	// Source is the index copied by InsertDuplicateOf, unless SourceColumn is set.
	Source       int
	SourceColumn string

	// At is the target index for inserts and indexed Remove, unless After
	// (inserts) or Column (Remove) is set.
	At    int
	After string

	// Value is the literal inserted by InsertLiteral, as it should appear in
	// the script (quotes included).
	Value string
}

// Rename renames column old to new in the header only.
func Rename(old, new string) Op {
	return Op{Kind: OpRename, From: old, Column: new}
}

// InsertDuplicateOf inserts column name at index at, copying every row's
// item at index source.
func InsertDuplicateOf(name string, source, at int) Op {
	return Op{Kind: OpInsertDuplicate, Column: name, Source: source, At: at}
}

// InsertLiteral inserts column name at index at with value in every row.
func InsertLiteral(name, value string, at int) Op {
	return Op{Kind: OpInsertLiteral, Column: name, Value: value, At: at}
}

// Remove drops the column at index at.
func Remove(at int) Op {
	return Op{Kind: OpRemove, At: at}
}

// RemoveColumn drops the column called name, if present.
func RemoveColumn(name string) Op {
	return Op{Kind: OpRemove, Column: name}
}

// String describes the op for diagnostics.
func (o Op) String() string {
	switch o.Kind {
	case OpRename:
		return fmt.Sprintf("Rename(%s, %s)", o.From, o.Column)
	case OpInsertDuplicate:
		src := fmt.Sprint(o.Source)
		if o.SourceColumn != "" {
			src = o.SourceColumn
		}
		return fmt.Sprintf("InsertDuplicateOf(%s, %s) as %s", src, o.position(), o.Column)
	case OpInsertLiteral:
		return fmt.Sprintf("InsertLiteral(%s, %s) as %s", o.Value, o.position(), o.Column)
	case OpRemove:
		if o.Column != "" {
			return fmt.Sprintf("Remove(%s)", o.Column)
		}
		return fmt.Sprintf("Remove(%d)", o.At)
	default:
		return fmt.Sprintf("Op(%d)", int(o.Kind))
	}
}

func (o Op) position() string {
	if o.After != "" {
		return "after " + o.After
	}
	return fmt.Sprint(o.At)
}

// Validate checks an op in isolation, before it meets any block.
func (o Op) Validate() error {
	var errs []error
	switch o.Kind {
	case OpRename:
		if o.From == "" || o.Column == "" {
			errs = append(errs, errors.New("rename needs both from and column"))
		}
	case OpInsertDuplicate, OpInsertLiteral:
		if o.Column == "" {
			errs = append(errs, errors.New("insert needs the new column name"))
		}
		if o.After == "" && o.At < 0 {
			errs = append(errs, fmt.Errorf("insert position %d is negative", o.At))
		}
		if o.Kind == OpInsertDuplicate && o.SourceColumn == "" && o.Source < 0 {
			errs = append(errs, fmt.Errorf("source index %d is negative", o.Source))
		}
		if o.Kind == OpInsertLiteral {
			if strings.TrimSpace(o.Value) == "" {
				errs = append(errs, errors.New("insert_literal needs a value"))
			} else if err := checkValue(o.Value); err != nil {
				errs = append(errs, fmt.Errorf("insert_literal value %s: %w", o.Value, err))
			}
		}
	case OpRemove:
		if o.Column == "" && o.At < 0 {
			errs = append(errs, fmt.Errorf("remove index %d is negative", o.At))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown op kind %d", int(o.Kind)))
	}
	return errors.Join(errs...)
}

// checkValue rejects a literal that would not stay one item of one row:
// an open quote, a comment, a top-level comma, a terminator or unbalanced
// parentheses.
func checkValue(value string) error {
	tokens, uerr := lexer.Tokenize(value)
	if uerr != nil {
		return uerr
	}
	depth := 0
	for _, tok := range tokens {
		switch {
		case tok.Kind == lexer.Comment:
			return errors.New("contains a comment")
		case tok.IsPunct("("):
			depth++
		case tok.IsPunct(")"):
			depth--
			if depth < 0 {
				return errors.New("unbalanced parentheses")
			}
		case tok.IsPunct(",") && depth == 0:
			return errors.New("contains a top-level comma")
		case tok.IsPunct(seedshift.StatementTerminator):
			return errors.New("contains a statement terminator")
		}
	}
	if depth != 0 {
		return errors.New("unbalanced parentheses")
	}
	return nil
}

// IsIndexed reports whether the op addresses columns purely by position,
// which makes it unsafe to re-run on already rewritten output.
func (o Op) IsIndexed() bool {
	return o.Kind == OpRemove && o.Column == ""
}
