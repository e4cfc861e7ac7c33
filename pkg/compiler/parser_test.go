package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func parseSource(t *testing.T, src string) (*Block, error) {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return Parse(tokens)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Empty program",
			input: "\n\n",
			want:  "Block([])",
		},
		{
			name:  "Assignment",
			input: "x = 2",
			want:  "Block([Assignment(x, Literal(2))])",
		},
		{
			name:  "Left associative additive chain",
			input: "r = x + y - 3",
			want:  "Block([Assignment(r, BinOp(BinOp(Variable(x), '+', Variable(y)), '-', Literal(3)))])",
		},
		{
			name:  "Equality binds looser than addition",
			input: "return a + 1 == b",
			want:  "Block([Return(BinOp(BinOp(Variable(a), '+', Literal(1)), '==', Variable(b)))])",
		},
		{
			name:  "Logical operators share the lowest tier",
			input: "return a and b or c",
			want:  "Block([Return(BinOp(BinOp(Variable(a), 'and', Variable(b)), 'or', Variable(c)))])",
		},
		{
			name:  "Xor",
			input: "return a ^ 15",
			want:  "Block([Return(BinOp(Variable(a), '^', Literal(15)))])",
		},
		{
			name:  "Unary not",
			input: "return not x",
			want:  "Block([Return(UnaryOp('not', Variable(x)))])",
		},
		{
			name:  "If block",
			input: "if x == 5\n  x = x + 1\nendif",
			want:  "Block([If(BinOp(Variable(x), '==', Literal(5)), Block([Assignment(x, BinOp(Variable(x), '+', Literal(1)))]))])",
		},
		{
			name:  "While block",
			input: "while i\n  i = i - 1\nendwhile\nreturn i",
			want:  "Block([While(Variable(i), Block([Assignment(i, BinOp(Variable(i), '-', Literal(1)))])), Return(Variable(i))])",
		},
		{
			name:  "Nested blocks",
			input: "while a\nif b\nc = 1\nendif\nendwhile",
			want:  "Block([While(Variable(a), Block([If(Variable(b), Block([Assignment(c, Literal(1))]))]))])",
		},
		{
			name:  "Empty body",
			input: "if 0\nendif",
			want:  "Block([If(Literal(0), Block([]))])",
		},
		{
			name:  "Comparison is parsed",
			input: "return a < b",
			want:  "Block([Return(BinOp(Variable(a), '<', Variable(b)))])",
		},
		{
			name:  "Boundary literal",
			input: "return 255",
			want:  "Block([Return(Literal(255))])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parseSource(t, tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got := prog.String(); got != tt.want {
				t.Errorf("Parse(%q)\n got: %s\nwant: %s\nAST:\n%s", tt.input, got, tt.want, spew.Sdump(prog))
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		msgPart string
	}{
		{"Missing endif", "if x\ny = 1", 1, "expected ENDIF to close IF"},
		{"Missing endwhile", "x = 1\nwhile x\nx = 0", 2, "expected ENDWHILE to close WHILE"},
		{"Stray endif", "x = 1\nendif", 2, "unexpected ENDIF"},
		{"Mismatched terminator", "while x\nendif", 2, "expected ENDWHILE"},
		{"Trailing tokens after endif", "if x\nendif x", 2, "expected NEWLINE after ENDIF"},
		{"Missing assignment", "x 5", 1, "expected ASSIGN"},
		{"Bare identifier", "x", 1, "expected ASSIGN"},
		{"Number at statement start", "5 = x", 1, "expected RETURN or ID"},
		{"Empty expression", "return", 1, "expected expression"},
		{"Empty condition", "if\nendif", 1, "expected expression"},
		{"Dangling operator", "x = 1 + 2 +", 1, "expected expression"},
		{"Two operands", "x = 1 2", 1, "expected unary operator"},
		{"Three leaves", "x = a b c", 1, "expected binary operator"},
		{"Unsupported arithmetic", "x = a * b", 1, "expected binary operator"},
		{"Assignment inside condition", "if x = 5\nendif", 1, "expected binary operator"},
		{"Literal out of range", "x = 256", 1, "out of range"},
		{"Keyword as operand", "x = return", 1, "expected NUMBER or ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parseSource(t, tt.input)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q): expected *ParseError, got %v\nAST:\n%s", tt.input, err, spew.Sdump(prog))
			}
			if pe.Line != tt.line {
				t.Errorf("Parse(%q): error on line %d; want %d (%v)", tt.input, pe.Line, tt.line, pe)
			}
			if !strings.Contains(pe.Msg, tt.msgPart) {
				t.Errorf("Parse(%q): error %q does not mention %q", tt.input, pe.Msg, tt.msgPart)
			}
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= MaxNestingDepth; i++ {
		sb.WriteString("if x\n")
	}
	for i := 0; i <= MaxNestingDepth; i++ {
		sb.WriteString("endif\n")
	}
	_, err := parseSource(t, sb.String())
	var pe *ParseError
	if !errors.As(err, &pe) || !strings.Contains(pe.Msg, "nested deeper") {
		t.Fatalf("expected nesting error, got %v", err)
	}
	if pe.Line != MaxNestingDepth+1 {
		t.Errorf("nesting error on line %d; want %d", pe.Line, MaxNestingDepth+1)
	}
}

func TestParse_ExpressionDepthLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"Deepest accepted chain", "x = 1" + strings.Repeat(" + 1", MaxTempDepth), true},
		{"One operator too many", "x = 1" + strings.Repeat(" + 1", MaxTempDepth+1), false},
		{"Long equality chain", "x = 1" + strings.Repeat(" == 1", 20000), false},
		{"Deep condition", "if 1" + strings.Repeat(" ^ 1", MaxTempDepth+1) + "\nendif", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				return
			}
			var pe *ParseError
			if !errors.As(err, &pe) || !strings.Contains(pe.Msg, "expression nested deeper") {
				t.Fatalf("expected expression depth error, got %v", err)
			}
			if pe.Line != 1 {
				t.Errorf("depth error on line %d; want 1", pe.Line)
			}
		})
	}
}
