// Package rewrite runs the full pass over one script: scan blocks, drop
// deny-listed ones, rename identifiers, reshape column lists and rows, then
// materialize placeholders.
//
// The pass is all-or-nothing per document for structural errors (a block
// left open at end of input) and per block for shape errors: a block whose
// rows cannot be reshaped keeps its renamed but otherwise original text and
// is listed in the report as skipped.
package rewrite
