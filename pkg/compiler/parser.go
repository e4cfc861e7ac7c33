package compiler

import (
	"fmt"
	"strings"
)

// MaxNestingDepth bounds how deeply if/while blocks may nest.
const MaxNestingDepth = 64

// precedenceTiers lists binary operators from lowest to highest precedence.
// parseExpr splits on the rightmost operator of the lowest tier present,
// which makes every tier left-associative.
var precedenceTiers = [][]Operator{
	{OpEq, OpNe, OpGt, OpLt, OpGe, OpLe, OpAnd, OpOr, OpXor},
	{OpAdd, OpSub},
}

// Parser consumes the token slice produced by Lex and builds an AST.
//
// Grammar:
//
//	program    = { statement }
//	statement  = ifStmt | whileStmt | returnStmt | assignment
//	ifStmt     = "if" expression NEWLINE { statement } "endif" NEWLINE
//	whileStmt  = "while" expression NEWLINE { statement } "endwhile" NEWLINE
//	returnStmt = "return" expression NEWLINE
//	assignment = ID "=" expression NEWLINE
//	expression = leaf | "not" leaf | expression binop expression
//	leaf       = NUMBER | ID
//
// Statements are parsed a whole line at a time; the block structure is held
// on the recursion stack.
type Parser struct {
	lines [][]Token
	pos   int // index of the next line to consume
	depth int // current if/while nesting
}

// NewParser splits tokens into logical lines, dropping empty ones.
func NewParser(tokens []Token) *Parser {
	return &Parser{lines: splitLines(tokens)}
}

// Parse builds the program AST from tokens.
func Parse(tokens []Token) (*Block, error) {
	return NewParser(tokens).ParseProgram()
}

// ParseProgram parses every remaining line as the top-level block.
func (p *Parser) ParseProgram() (*Block, error) {
	return p.parseBlock(nil)
}

func splitLines(tokens []Token) [][]Token {
	var lines [][]Token
	var cur []Token
	for _, tok := range tokens {
		if tok.Type == NEWLINE {
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func errorAt(tok Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Msg: fmt.Sprintf(format, args...)}
}

// closerFor returns the terminator matching an IF or WHILE opener.
func closerFor(opener TokenType) TokenType {
	if opener == WHILE {
		return ENDWHILE
	}
	return ENDIF
}

// parseBlock consumes statements until the terminator matching opener, or
// until the end of input when opener is nil.
func (p *Parser) parseBlock(opener *Token) (*Block, error) {
	block := &Block{}
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		first := line[0]

		switch first.Type {
		case ENDIF, ENDWHILE:
			if opener == nil {
				return nil, errorAt(first, "unexpected %s without matching %s", first.Type, openerFor(first.Type))
			}
			if want := closerFor(opener.Type); first.Type != want {
				return nil, errorAt(first, "expected %s to close %s on line %d, found %s", want, opener.Type, opener.Line, first.Type)
			}
			if len(line) > 1 {
				return nil, errorAt(line[1], "expected NEWLINE after %s, found %s", first.Type, line[1].Type)
			}
			p.pos++
			return block, nil

		case IF, WHILE:
			stmt, err := p.parseCompound(line)
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, stmt)

		default:
			stmt, err := parseSimple(line)
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, stmt)
			p.pos++
		}
	}

	if opener != nil {
		return nil, errorAt(*opener, "expected %s to close %s, found end of input", closerFor(opener.Type), opener.Type)
	}
	return block, nil
}

// openerFor names the opener a stray terminator is missing.
func openerFor(closer TokenType) TokenType {
	if closer == ENDWHILE {
		return WHILE
	}
	return IF
}

// parseCompound handles an if/while header line and recurses for its body.
func (p *Parser) parseCompound(line []Token) (Stmt, error) {
	head := line[0]
	if p.depth >= MaxNestingDepth {
		return nil, errorAt(head, "blocks nested deeper than %d levels", MaxNestingDepth)
	}
	cond, err := parseExpr(line[1:], head.Line, 0)
	if err != nil {
		return nil, err
	}
	p.pos++

	p.depth++
	body, err := p.parseBlock(&head)
	p.depth--
	if err != nil {
		return nil, err
	}

	if head.Type == WHILE {
		return &While{Cond: cond, Body: body}, nil
	}
	return &If{Cond: cond, Body: body}, nil
}

// parseSimple handles the one-line statements: return and assignment.
func parseSimple(line []Token) (Stmt, error) {
	first := line[0]
	switch {
	case first.Type == RETURN:
		expr, err := parseExpr(line[1:], first.Line, 0)
		if err != nil {
			return nil, err
		}
		return &Return{Expr: expr}, nil

	case first.Type == ID && len(line) > 1 && line[1].Type == ASSIGN:
		expr, err := parseExpr(line[2:], first.Line, 0)
		if err != nil {
			return nil, err
		}
		return &Assignment{Name: first.Lexeme, Expr: expr, Line: first.Line}, nil

	case first.Type == ID:
		found := "NEWLINE"
		if len(line) > 1 {
			found = line[1].Type.String()
		}
		return nil, errorAt(first, "expected ASSIGN after %q, found %s", first.Lexeme, found)
	}
	return nil, errorAt(first, "expected RETURN or ID at start of statement, found %s", first.Type)
}

// parseExpr builds an expression tree from the tokens of one line. line is
// used for diagnostics when tokens is empty. depth counts the binary
// operators above this one; it is bounded by the scratch cells codegen has.
func parseExpr(tokens []Token, line, depth int) (Expr, error) {
	switch len(tokens) {
	case 0:
		return nil, &ParseError{Line: line, Msg: "expected expression, found nothing"}
	case 1:
		return parseLeaf(tokens[0])
	case 2:
		if tokens[0].Type == OP && Operator(tokens[0].Lexeme) == OpNot {
			operand, err := parseLeaf(tokens[1])
			if err != nil {
				return nil, err
			}
			return &UnaryOp{Op: OpNot, Operand: operand}, nil
		}
		return nil, errorAt(tokens[0], "expected unary operator 'not', found %s", describe(tokens[0]))
	}

	for _, tier := range precedenceTiers {
		for i := len(tokens) - 1; i >= 0; i-- {
			tok := tokens[i]
			if tok.Type != OP || !inTier(Operator(tok.Lexeme), tier) {
				continue
			}
			if depth >= MaxTempDepth {
				return nil, errorAt(tok, "expression nested deeper than %d levels", MaxTempDepth)
			}
			left, err := parseExpr(tokens[:i], tok.Line, depth+1)
			if err != nil {
				return nil, err
			}
			right, err := parseExpr(tokens[i+1:], tok.Line, depth+1)
			if err != nil {
				return nil, err
			}
			return &BinOp{Left: left, Op: Operator(tok.Lexeme), Right: right, Line: tok.Line}, nil
		}
	}
	return nil, errorAt(tokens[0], "expected binary operator in %q", joinLexemes(tokens))
}

func parseLeaf(tok Token) (Expr, error) {
	switch tok.Type {
	case ID:
		return &Variable{Name: tok.Lexeme, Line: tok.Line}, nil
	case NUMBER:
		if tok.Value > 0xFF {
			return nil, errorAt(tok, "integer literal %s out of range 0..255", tok.Lexeme)
		}
		return &Literal{Value: uint8(tok.Value)}, nil
	}
	return nil, errorAt(tok, "expected NUMBER or ID, found %s", describe(tok))
}

func inTier(op Operator, tier []Operator) bool {
	for _, t := range tier {
		if t == op {
			return true
		}
	}
	return false
}

func describe(tok Token) string {
	if tok.Type == OP || tok.Type == ASSIGN {
		return fmt.Sprintf("%s %q", tok.Type, tok.Lexeme)
	}
	return tok.Type.String()
}

func joinLexemes(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Lexeme
	}
	return strings.Join(parts, " ")
}
