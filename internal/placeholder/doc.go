// Package placeholder replaces human-readable stand-in ids in seed scripts
// ('user-1', 'demo-family') with generated opaque values.
//
// A placeholder is a single-quoted literal whose body is a configured tag
// followed by a dash and a numeral, or one of a fixed set of names. Each
// distinct placeholder gets exactly one value per run, shared by all of its
// occurrences. Values are random UUIDs unless a seeded generator is supplied,
// so running the materializer twice gives different output.
package placeholder
