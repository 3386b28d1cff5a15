package statement

import "strings"

// Line is one line of a script with its original line ending.
type Line struct {
	Text string
	EOL  string // "\n", "\r\n" or "" for a final line without newline
}

// Document is a script split into lines. Joining Text+EOL of every line
// reproduces the input exactly.
type Document struct {
	Lines []Line
}

// ParseDocument splits text into lines, keeping line endings.
func ParseDocument(text string) *Document {
	doc := &Document{}
	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			doc.Lines = append(doc.Lines, Line{Text: text})
			break
		}
		body := text[:idx]
		eol := "\n"
		if strings.HasSuffix(body, "\r") {
			body = body[:len(body)-1]
			eol = "\r\n"
		}
		doc.Lines = append(doc.Lines, Line{Text: body, EOL: eol})
		text = text[idx+1:]
	}
	return doc
}

// Texts returns the line bodies without line endings.
func (d *Document) Texts() []string {
	out := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Text
	}
	return out
}

// String reassembles the document.
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Text)
		b.WriteString(l.EOL)
	}
	return b.String()
}
