// Package lexer splits script lines into lossless token sequences.
//
// Every byte of a line belongs to exactly one token, so joining the token
// texts reproduces the line. Quoted literals, dollar-quoted bodies and
// comments are recognised first, which keeps later passes from mistaking
// the contents of a string for an identifier or keyword.
//
// A literal left open at the end of a line is reported as an
// UnterminatedError warning; the rest of the line is one Literal token and
// the open state carries over to the next line when TokenizeAll is used.
package lexer
