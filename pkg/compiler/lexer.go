package compiler

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// keywords maps reserved words to their TokenType. The word operators
// and/or/not are lexed as OP.
var keywords = map[string]TokenType{
	"if":       IF,
	"endif":    ENDIF,
	"while":    WHILE,
	"endwhile": ENDWHILE,
	"return":   RETURN,
	"and":      OP,
	"or":       OP,
	"not":      OP,
}

// operators lists symbolic operators, longest first so that "==" wins over "=".
var operators = []struct {
	text string
	tt   TokenType
}{
	{"==", OP},
	{"!=", OP},
	{">=", OP},
	{"<=", OP},
	{"=", ASSIGN},
	{"+", OP},
	{"-", OP},
	{"*", OP},
	{"/", OP},
	{"%", OP},
	{"^", OP},
	{">", OP},
	{"<", OP},
}

// Lexer holds the scanning state for one source line.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // 1-based source line
}

func newLexer(line string, lineNo int) *Lexer {
	return &Lexer{src: []rune(line), line: lineNo}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.pos++
	}
}

// Identifiers and literals are ASCII only.
func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func (l *Lexer) token(tt TokenType, start int) Token {
	return Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Line: l.line, Col: start + 1}
}

// scanWord collects an identifier, keyword or word operator.
func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !isLetter(r) && !isDigit(r) {
			break
		}
		l.pos++
	}
	tt := ID
	if kw, ok := keywords[string(l.src[start:l.pos])]; ok {
		tt = kw
	}
	return l.token(tt, start)
}

// scanNumber collects a decimal literal. Values that overflow int are clamped;
// the parser rejects anything outside 0..255 anyway.
func (l *Lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.pos++
	}
	tok := l.token(NUMBER, start)
	v, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		v = math.MaxInt32
	}
	tok.Value = v
	return tok
}

// hasPrefix reports whether the unread input starts with s.
func (l *Lexer) hasPrefix(s string) bool {
	i := l.pos
	for _, r := range s {
		if i >= len(l.src) || l.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (l *Lexer) scanOperator() (Token, bool) {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			start := l.pos
			l.pos += len([]rune(op.text))
			return l.token(op.tt, start), true
		}
	}
	return Token{}, false
}

func (l *Lexer) nextToken() (Token, bool, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{}, false, nil
	}

	ch := l.peek()
	switch {
	case isDigit(ch):
		return l.scanNumber(), true, nil
	case isLetter(ch):
		return l.scanWord(), true, nil
	}
	if tok, ok := l.scanOperator(); ok {
		return tok, true, nil
	}
	return Token{}, false, &LexError{Char: ch, Line: l.line, Col: l.pos + 1}
}

func lexLine(line string, lineNo int) ([]Token, error) {
	l := newLexer(line, lineNo)
	var tokens []Token
	for {
		tok, ok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Lex tokenises src one line at a time. Every line, blank ones included, is
// terminated by a NEWLINE token.
func Lex(src string) ([]Token, error) {
	var tokens []Token
	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1
		toks, err := lexLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, toks...)
		tokens = append(tokens, Token{Type: NEWLINE, Lexeme: "\n", Line: lineNo, Col: len([]rune(line)) + 1})
	}
	return tokens, nil
}
