// Package rename rewrites identifiers on token boundaries.
//
// A Rule matches one segment of an Identifier token: plain names match as a
// whole, dotted names (schema.table, alias.column) match segment by segment.
// A pattern that is itself dotted matches only the whole qualified name.
// Literals, comments and call expressions are never touched, so a rule for
// families leaves 'families' and familiesX alone. Double-quoted identifiers
// ("families") tokenize as literals and are never renamed either: a quoted
// name is exact and case-sensitive, and rewriting it needs an explicit
// quoted replacement that no rule form expresses.
//
// A rule with contexts fires only when the nearest preceding significant
// token is one of those keywords. That token may sit on an earlier line.
// Rules apply in priority order (highest first, declaration order breaking
// ties) and every segment is rewritten at most once, so a chain such as
// a → b, b → c never turns a into c in a single pass.
package rename
