// Package checksum fingerprints script content so a rewrite can be
// classified without keeping both texts around.
//
// Two digests are provided:
//
//   - Raw: SHA-256 of the exact bytes. Equal raw digests mean the file is
//     left untouched.
//   - Normalized: SHA-256 after dropping comments, collapsing whitespace and
//     lowercasing keywords and identifiers. Literals are kept verbatim.
//     Equal normalized digests with different raw digests mean the rewrite
//     only changed layout.
//
// # Example Usage
//
//	calculator := checksum.New()
//	before := calculator.CalculateRaw(original)
//	after := calculator.CalculateRaw(rewritten)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
