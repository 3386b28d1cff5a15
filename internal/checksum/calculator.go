package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/vvka-141/seedshift/internal/lexer"
)

// Calculator is an interface for computing file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256([]byte(c.normalize(string(content))))
	return hex.EncodeToString(hash[:])
}

// normalize drops comments, folds whitespace runs (line breaks included)
// into one space and lowercases everything outside literals.
func (c SHA256) normalize(content string) string {
	lines, _ := lexer.TokenizeAll(strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n"))

	var b strings.Builder
	b.Grow(len(content))
	pendingSpace := false
	for n, tokens := range lines {
		if n > 0 {
			pendingSpace = true
		}
		for _, tok := range tokens {
			switch tok.Kind {
			case lexer.Whitespace, lexer.Comment:
				pendingSpace = true
				continue
			}
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			if tok.Kind == lexer.Literal {
				b.WriteString(tok.Text)
			} else {
				b.WriteString(strings.ToLower(tok.Text))
			}
		}
	}
	return b.String()
}
