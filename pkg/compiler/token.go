package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	NUMBER   TokenType = iota // decimal integer literal
	ID                        // variable name
	OP                        // operator, including the word operators and/or/not
	ASSIGN                    // =
	IF                        // "if"
	ENDIF                     // "endif"
	WHILE                     // "while"
	ENDWHILE                  // "endwhile"
	RETURN                    // "return"
	NEWLINE                   // end of a source line
)

// tokenNames is indexed by TokenType; the array length check below keeps it
// in step with the constants.
var tokenNames = [...]string{
	NUMBER:   "NUMBER",
	ID:       "ID",
	OP:       "OP",
	ASSIGN:   "ASSIGN",
	IF:       "IF",
	ENDIF:    "ENDIF",
	WHILE:    "WHILE",
	ENDWHILE: "ENDWHILE",
	RETURN:   "RETURN",
	NEWLINE:  "NEWLINE",
}

var _ [NEWLINE + 1]struct{} = [len(tokenNames)]struct{}{}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Value  int    // numeric value of a NUMBER token
	Line   int    // 1-based source line
	Col    int    // 1-based column of the first character
}

func (t Token) String() string {
	switch t.Type {
	case NUMBER:
		return fmt.Sprintf("%s:%d", t.Type, t.Value)
	case NEWLINE:
		return t.Type.String()
	}
	return fmt.Sprintf("%s:%s", t.Type, t.Lexeme)
}
