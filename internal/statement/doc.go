// Package statement locates row-producing statement blocks in script text.
//
// A Document is the script split into lines with their original line
// endings. Scan runs a three-state machine (idle, in header, in values)
// over the tokenized lines and returns one Block per INSERT/REPLACE
// statement. ExtractShape then resolves, for a block, the header column
// list and every value row as single-line comma-separated tuples that can
// be re-rendered with new items while keeping the surrounding text.
package statement
