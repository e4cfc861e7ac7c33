package compiler

import (
	"fmt"

	"minicpu/pkg/asm"
	"minicpu/pkg/cpu"
)

// CodeGen walks an AST and emits pseudo-instructions with absolute addresses.
type CodeGen struct {
	syms *SymbolTable
	out  []asm.Instruction
	pc   int // byte address of the next instruction
}

func newCodeGen(syms *SymbolTable) *CodeGen {
	return &CodeGen{syms: syms}
}

// Generate lowers prog to pseudo-instructions. syms is cleared first and
// holds the variable layout afterwards.
//
// A program whose last top-level statement is not a return gets a trailing
// HALT so execution never runs into the variable region.
func Generate(prog *Block, syms *SymbolTable) ([]asm.Instruction, error) {
	syms.Reset()
	cg := newCodeGen(syms)
	if err := cg.genBlock(prog); err != nil {
		return nil, err
	}
	if n := len(prog.Stmts); n == 0 {
		cg.emit(cpu.OpHALT)
	} else if _, ok := prog.Stmts[n-1].(*Return); !ok {
		cg.emit(cpu.OpHALT)
	}

	if cg.pc > VarBase {
		return nil, &CodegenError{Msg: fmt.Sprintf("program too large: %d bytes of code overlap variables at 0x%02X", cg.pc, VarBase)}
	}
	return cg.out, nil
}

func (cg *CodeGen) emit(op cpu.Opcode) {
	cg.out = append(cg.out, asm.Op(op))
	cg.pc += op.Size()
}

// emitArg appends op with an operand and returns its index for patching.
func (cg *CodeGen) emitArg(op cpu.Opcode, arg int) int {
	cg.out = append(cg.out, asm.OpArg(op, arg))
	cg.pc += op.Size()
	return len(cg.out) - 1
}

func (cg *CodeGen) genBlock(b *Block) error {
	for _, s := range b.Stmts {
		if err := cg.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genStmt(s Stmt) error {
	switch n := s.(type) {
	case *Assignment:
		if err := cg.genExpr(n.Expr, 0); err != nil {
			return err
		}
		addr, _, err := cg.syms.Allocate(n.Name)
		if err != nil {
			return &CodegenError{Line: n.Line, Msg: err.Error()}
		}
		cg.emitArg(cpu.OpSTA, addr)

	case *Return:
		if err := cg.genExpr(n.Expr, 0); err != nil {
			return err
		}
		cg.emit(cpu.OpHALT)

	case *If:
		//	<cond>
		//	JNZ end
		//	<body>
		// end:
		if err := cg.genCond(n.Cond); err != nil {
			return err
		}
		skip := cg.emitArg(cpu.OpJNZ, 0)
		if err := cg.genBlock(n.Body); err != nil {
			return err
		}
		cg.out[skip].Operand = cg.pc

	case *While:
		// top:
		//	<cond>
		//	JNZ end
		//	<body>
		//	JMP top
		// end:
		top := cg.pc
		if err := cg.genCond(n.Cond); err != nil {
			return err
		}
		exit := cg.emitArg(cpu.OpJNZ, 0)
		if err := cg.genBlock(n.Body); err != nil {
			return err
		}
		cg.emitArg(cpu.OpJMP, top)
		cg.out[exit].Operand = cg.pc

	case *Block:
		return cg.genBlock(n)

	default:
		return &CodegenError{Msg: fmt.Sprintf("unknown statement type %T", s)}
	}
	return nil
}

// genCond evaluates a branch condition so that Z is set exactly when the
// value is zero. Loads do not touch the flags, so a bare literal or variable
// is ORed with itself.
func (cg *CodeGen) genCond(e Expr) error {
	if err := cg.genExpr(e, 0); err != nil {
		return err
	}
	switch e.(type) {
	case *Literal, *Variable:
		cg.emitArg(cpu.OpSTA, TempBase)
		cg.emitArg(cpu.OpOR, TempBase)
	}
	return nil
}

// commutativeOps maps operators evaluated left-then-right to their opcode.
var commutativeOps = map[Operator]cpu.Opcode{
	OpAdd: cpu.OpADD,
	OpAnd: cpu.OpAND,
	OpOr:  cpu.OpOR,
	OpXor: cpu.OpXOR,
}

// genExpr leaves the value of e in ACC. depth selects the scratch cell used
// by a binary operator at this level of nesting.
func (cg *CodeGen) genExpr(e Expr, depth int) error {
	switch n := e.(type) {
	case *Literal:
		cg.emitArg(cpu.OpLDI, int(n.Value))

	case *Variable:
		addr, ok := cg.syms.Lookup(n.Name)
		if !ok {
			return &CodegenError{Line: n.Line, Msg: fmt.Sprintf("variable %q used before assignment", n.Name)}
		}
		cg.emitArg(cpu.OpLDA, addr)

	case *UnaryOp:
		if n.Op != OpNot {
			return &CodegenError{Msg: fmt.Sprintf("unsupported unary operator %q", n.Op)}
		}
		if err := cg.genExpr(n.Operand, depth); err != nil {
			return err
		}
		cg.emit(cpu.OpNOT)

	case *BinOp:
		return cg.genBinOp(n, depth)

	default:
		return &CodegenError{Msg: fmt.Sprintf("unknown expression type %T", e)}
	}
	return nil
}

func (cg *CodeGen) genBinOp(n *BinOp, depth int) error {
	if depth >= MaxTempDepth {
		return &CodegenError{Line: n.Line, Msg: fmt.Sprintf("expression nested deeper than %d levels", MaxTempDepth)}
	}
	temp := TempBase + depth

	if op, ok := commutativeOps[n.Op]; ok {
		// temp = left; ACC = right OP temp
		if err := cg.genExpr(n.Left, depth+1); err != nil {
			return err
		}
		cg.emitArg(cpu.OpSTA, temp)
		if err := cg.genExpr(n.Right, depth+1); err != nil {
			return err
		}
		cg.emitArg(op, temp)
		return nil
	}

	switch n.Op {
	case OpSub, OpEq, OpNe:
		// temp = right; ACC = left - temp. For == and != the zero flag of the
		// subtraction carries the answer; != inverts the value.
		if err := cg.genExpr(n.Right, depth+1); err != nil {
			return err
		}
		cg.emitArg(cpu.OpSTA, temp)
		if err := cg.genExpr(n.Left, depth+1); err != nil {
			return err
		}
		cg.emitArg(cpu.OpSUB, temp)
		if n.Op == OpNe {
			cg.emit(cpu.OpNOT)
		}
		return nil
	}
	return &CodegenError{Line: n.Line, Msg: fmt.Sprintf("unsupported binary operator %q", n.Op)}
}
