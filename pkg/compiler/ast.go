package compiler

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result in ACC.
type Expr interface {
	exprNode()
	String() string
}

// Literal is an 8-bit integer constant.
//
//	x = 10
//	    ^^  Literal{Value: 10}
type Literal struct {
	Value uint8
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return fmt.Sprintf("Literal(%d)", l.Value) }

// Variable is a read of a named variable.
type Variable struct {
	Name string
	Line int
}

func (*Variable) exprNode()        {}
func (v *Variable) String() string { return fmt.Sprintf("Variable(%s)", v.Name) }

// Operator is the source spelling of a unary or binary operator.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpGt  Operator = ">"
	OpLe  Operator = "<="
	OpGe  Operator = ">="
	OpAnd Operator = "and"
	OpOr  Operator = "or"
	OpXor Operator = "^"
	OpNot Operator = "not"
)

// BinOp represents Left Op Right.
//
//	x + 1
//	^ ^ ^
//	| | Right
//	| Op
//	Left
type BinOp struct {
	Left  Expr
	Op    Operator
	Right Expr
	Line  int
}

func (*BinOp) exprNode() {}
func (b *BinOp) String() string {
	return fmt.Sprintf("BinOp(%s, '%s', %s)", b.Left, b.Op, b.Right)
}

// UnaryOp represents Op Operand; only "not" exists.
type UnaryOp struct {
	Op      Operator
	Operand Expr
}

func (*UnaryOp) exprNode() {}
func (u *UnaryOp) String() string {
	return fmt.Sprintf("UnaryOp('%s', %s)", u.Op, u.Operand)
}

//  Statement nodes

// Stmt is implemented by every node that can appear in a Block.
type Stmt interface {
	stmtNode()
	String() string
}

// Assignment stores the value of Expr in the variable Name.
type Assignment struct {
	Name string
	Expr Expr
	Line int
}

func (*Assignment) stmtNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment(%s, %s)", a.Name, a.Expr)
}

// Return evaluates Expr and halts the machine with it in ACC.
type Return struct {
	Expr Expr
}

func (*Return) stmtNode()        {}
func (r *Return) String() string { return fmt.Sprintf("Return(%s)", r.Expr) }

// If runs Body when Cond evaluates to zero.
//
//	if x == 5
//	  x = x + 1
//	endif
type If struct {
	Cond Expr
	Body *Block
}

func (*If) stmtNode() {}
func (i *If) String() string {
	return fmt.Sprintf("If(%s, %s)", i.Cond, i.Body)
}

// While repeats Body for as long as Cond evaluates to zero.
type While struct {
	Cond Expr
	Body *Block
}

func (*While) stmtNode() {}
func (w *While) String() string {
	return fmt.Sprintf("While(%s, %s)", w.Cond, w.Body)
}

// Block is an ordered list of statements. A whole program is a Block.
type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "Block([" + strings.Join(parts, ", ") + "])"
}
