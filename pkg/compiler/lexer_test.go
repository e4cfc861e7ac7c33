package compiler

import (
	"errors"
	"strings"
	"testing"
)

func tokenStrings(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Empty",
			input: "",
			want:  "NEWLINE",
		},
		{
			name:  "Assignment",
			input: "x = 2",
			want:  "ID:x ASSIGN:= NUMBER:2 NEWLINE",
		},
		{
			name:  "No whitespace",
			input: "x=a+10",
			want:  "ID:x ASSIGN:= ID:a OP:+ NUMBER:10 NEWLINE",
		},
		{
			name:  "Equality is one token",
			input: "if x == 5",
			want:  "IF:if ID:x OP:== NUMBER:5 NEWLINE",
		},
		{
			name:  "Comparison operators",
			input: "a != b >= c <= d > e < f ^ g",
			want:  "ID:a OP:!= ID:b OP:>= ID:c OP:<= ID:d OP:> ID:e OP:< ID:f OP:^ ID:g NEWLINE",
		},
		{
			name:  "Word operators",
			input: "not a and b or c",
			want:  "OP:not ID:a OP:and ID:b OP:or ID:c NEWLINE",
		},
		{
			name:  "Word operators need a word boundary",
			input: "android = orange",
			want:  "ID:android ASSIGN:= ID:orange NEWLINE",
		},
		{
			name:  "Keywords",
			input: "while x\nendwhile\nif y\nendif\nreturn z",
			want: "WHILE:while ID:x NEWLINE ENDWHILE:endwhile NEWLINE " +
				"IF:if ID:y NEWLINE ENDIF:endif NEWLINE RETURN:return ID:z NEWLINE",
		},
		{
			name:  "Blank lines keep their NEWLINE",
			input: "x = 1\n\n  \ny = 2",
			want:  "ID:x ASSIGN:= NUMBER:1 NEWLINE NEWLINE NEWLINE ID:y ASSIGN:= NUMBER:2 NEWLINE",
		},
		{
			name:  "Identifiers with digits and underscores",
			input: "_tmp1 = var_2",
			want:  "ID:_tmp1 ASSIGN:= ID:var_2 NEWLINE",
		},
		{
			name:  "Arithmetic operators the parser rejects",
			input: "a * b / c % d",
			want:  "ID:a OP:* ID:b OP:/ ID:c OP:% ID:d NEWLINE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q): %v", tt.input, err)
			}
			if got := tokenStrings(tokens); got != tt.want {
				t.Errorf("Lex(%q)\n got: %s\nwant: %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	tokens, err := Lex("a = 1\n  b = a + 22")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	want := []struct {
		lexeme    string
		line, col int
	}{
		{"a", 1, 1}, {"=", 1, 3}, {"1", 1, 5}, {"\n", 1, 6},
		{"b", 2, 3}, {"=", 2, 5}, {"a", 2, 7}, {"+", 2, 9}, {"22", 2, 11}, {"\n", 2, 13},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %s", len(tokens), len(want), tokenStrings(tokens))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Lexeme != w.lexeme || tok.Line != w.line || tok.Col != w.col {
			t.Errorf("token %d = %q at %d:%d; want %q at %d:%d", i, tok.Lexeme, tok.Line, tok.Col, w.lexeme, w.line, w.col)
		}
	}
	if tokens[8].Value != 22 {
		t.Errorf("NUMBER value = %d; want 22", tokens[8].Value)
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		input string
		char  rune
		line  int
		col   int
	}{
		{"x = 1 & 2", '&', 1, 7},
		{"x = 1\ny = (2)", '(', 2, 5},
		{"a = !b", '!', 1, 5},
		{"z = 3;", ';', 1, 6},
		{"é = 1", 'é', 1, 1},
		{"café = 1", 'é', 1, 4},
		{"x = ٣", '٣', 1, 5},
	}
	for _, tt := range tests {
		_, err := Lex(tt.input)
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("Lex(%q): expected *LexError, got %v", tt.input, err)
			continue
		}
		if lexErr.Char != tt.char || lexErr.Line != tt.line || lexErr.Col != tt.col {
			t.Errorf("Lex(%q): got %q at %d:%d; want %q at %d:%d",
				tt.input, lexErr.Char, lexErr.Line, lexErr.Col, tt.char, tt.line, tt.col)
		}
	}
}

func TestLex_LargeNumberClamped(t *testing.T) {
	tokens, err := Lex("x = 99999999999999999999")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if tokens[2].Type != NUMBER || tokens[2].Value <= 0xFF {
		t.Errorf("oversized literal lexed as %+v", tokens[2])
	}
}
