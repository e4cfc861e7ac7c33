package compiler

import "fmt"

// LexError reports a character the lexer does not recognise.
type LexError struct {
	Char rune
	Line int
	Col  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d:%d: unexpected character %q", e.Line, e.Col, e.Char)
}

// ParseError reports a malformed statement or expression.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// CodegenError reports a construct the code generator cannot lower.
type CodegenError struct {
	Line int
	Msg  string
}

func (e *CodegenError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}
