package shape

import (
	"fmt"
	"strings"

	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// MismatchError reports a row that does not line up with its header, or an
// op addressing a position that does not exist.
type MismatchError struct {
	Op     string // op being applied; empty for the precondition check
	Row    int    // 0-based row index, -1 when the header itself is at fault
	Want   int
	Got    int
	Reason string
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	b.WriteString(seedshift.ErrRowColumnCountMismatch.Error())
	if e.Op != "" {
		fmt.Fprintf(&b, " applying %s", e.Op)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&b, " at row %d", e.Row+1)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	} else {
		fmt.Fprintf(&b, ": want %d values, got %d", e.Want, e.Got)
	}
	return b.String()
}

func (e *MismatchError) Unwrap() error {
	return seedshift.ErrRowColumnCountMismatch
}

// Stats counts what Apply changed.
type Stats struct {
	Renamed  int
	Inserted int
	Removed  int
	Skipped  int // named ops that found nothing to do
}

// Result is the reshaped header and rows.
type Result struct {
	Columns []string
	Rows    [][]string
	Stats   Stats
}

// Changed reports whether any op took effect.
func (r Result) Changed() bool {
	return r.Stats.Renamed+r.Stats.Inserted+r.Stats.Removed > 0
}

// Apply runs ops in order over columns and rows. The inputs are not
// modified. Every row must have exactly len(columns) items before the first
// op; after the last op the same holds for the new column count, or Apply
// fails and the caller keeps the original text.
func Apply(columns []string, rows [][]string, ops []Op) (Result, error) {
	for r, row := range rows {
		if len(row) != len(columns) {
			return Result{}, &MismatchError{Row: r, Want: len(columns), Got: len(row)}
		}
	}

	res := Result{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, len(rows)),
	}
	for r, row := range rows {
		res.Rows[r] = append([]string(nil), row...)
	}

	for _, op := range ops {
		if err := res.apply(op); err != nil {
			return Result{}, err
		}
	}

	for r, row := range res.Rows {
		if len(row) != len(res.Columns) {
			return Result{}, &MismatchError{Row: r, Want: len(res.Columns), Got: len(row), Reason: "rows drifted from header"}
		}
	}
	return res, nil
}

func (res *Result) apply(op Op) error {
	switch op.Kind {
	case OpRename:
		i := indexOf(res.Columns, op.From)
		if i < 0 || indexOf(res.Columns, op.Column) >= 0 {
			res.Stats.Skipped++
			return nil
		}
		res.Columns[i] = op.Column
		res.Stats.Renamed++
		return nil

	case OpInsertDuplicate, OpInsertLiteral:
		if indexOf(res.Columns, op.Column) >= 0 {
			res.Stats.Skipped++
			return nil
		}
		at, err := res.insertPosition(op)
		if err != nil {
			return err
		}

		source := op.Source
		if op.Kind == OpInsertDuplicate {
			if op.SourceColumn != "" {
				source = indexOf(res.Columns, op.SourceColumn)
				if source < 0 {
					return &MismatchError{Op: op.String(), Row: -1, Reason: fmt.Sprintf("no column %q to copy", op.SourceColumn)}
				}
			}
			if source < 0 || source >= len(res.Columns) {
				return &MismatchError{Op: op.String(), Row: -1, Reason: fmt.Sprintf("source index %d outside %d columns", source, len(res.Columns))}
			}
		}

		for r, row := range res.Rows {
			if source >= len(row) || at > len(row) {
				return &MismatchError{Op: op.String(), Row: r, Want: len(res.Columns), Got: len(row)}
			}
			value := op.Value
			if op.Kind == OpInsertDuplicate {
				value = row[source]
			}
			res.Rows[r] = insertAt(row, at, value)
		}
		res.Columns = insertAt(res.Columns, at, op.Column)
		res.Stats.Inserted++
		return nil

	case OpRemove:
		at := op.At
		if op.Column != "" {
			at = indexOf(res.Columns, op.Column)
			if at < 0 {
				res.Stats.Skipped++
				return nil
			}
		}
		if at < 0 || at >= len(res.Columns) {
			return &MismatchError{Op: op.String(), Row: -1, Reason: fmt.Sprintf("index %d outside %d columns", at, len(res.Columns))}
		}
		for r, row := range res.Rows {
			if at >= len(row) {
				return &MismatchError{Op: op.String(), Row: r, Want: at + 1, Got: len(row)}
			}
			res.Rows[r] = removeAt(row, at)
		}
		res.Columns = removeAt(res.Columns, at)
		res.Stats.Removed++
		return nil

	default:
		return fmt.Errorf("unknown op kind %d", int(op.Kind))
	}
}

func (res *Result) insertPosition(op Op) (int, error) {
	if op.After != "" {
		i := indexOf(res.Columns, op.After)
		if i < 0 {
			return 0, &MismatchError{Op: op.String(), Row: -1, Reason: fmt.Sprintf("no column %q to insert after", op.After)}
		}
		return i + 1, nil
	}
	if op.At < 0 || op.At > len(res.Columns) {
		return 0, &MismatchError{Op: op.String(), Row: -1, Reason: fmt.Sprintf("index %d outside %d columns", op.At, len(res.Columns))}
	}
	return op.At, nil
}

// indexOf finds a column by name, ignoring case and identifier quotes.
func indexOf(columns []string, name string) int {
	want := normalize(name)
	for i, c := range columns {
		if normalize(c) == want {
			return i
		}
	}
	return -1
}

func normalize(name string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(name), `"`))
}

func insertAt(s []string, at int, v string) []string {
	out := make([]string, 0, len(s)+1)
	out = append(out, s[:at]...)
	out = append(out, v)
	return append(out, s[at:]...)
}

func removeAt(s []string, at int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:at]...)
	return append(out, s[at+1:]...)
}
