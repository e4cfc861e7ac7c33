package cpu

import "fmt"

// ALUOp selects an arithmetic/logic operation.
type ALUOp int

const (
	ALUAdd ALUOp = iota
	ALUSub
	ALUAnd
	ALUOr
	ALUXor
	ALUNot
)

var aluOpNames = [...]string{
	ALUAdd: "add",
	ALUSub: "sub",
	ALUAnd: "and",
	ALUOr:  "or",
	ALUXor: "xor",
	ALUNot: "not",
}

func (op ALUOp) String() string {
	if int(op) >= 0 && int(op) < len(aluOpNames) {
		return aluOpNames[op]
	}
	return fmt.Sprintf("ALUOp(%d)", int(op))
}

// Flags is the condition state produced by an ALU operation.
// N mirrors bit 7 of the result; no branch instruction reads it yet.
type Flags struct {
	Z bool
	N bool
}

// ALU performs 8-bit operations. It holds no state.
type ALU struct{}

// Operate applies op to a and b (b is ignored for ALUNot). Results wrap
// modulo 256.
func (ALU) Operate(op ALUOp, a, b uint8) (uint8, Flags) {
	var result uint8
	switch op {
	case ALUAdd:
		result = a + b
	case ALUSub:
		result = a - b
	case ALUAnd:
		result = a & b
	case ALUOr:
		result = a | b
	case ALUXor:
		result = a ^ b
	case ALUNot:
		result = ^a
	default:
		panic(fmt.Sprintf("cpu: unknown ALU operation %v", op))
	}
	return result, Flags{Z: result == 0, N: result&0x80 != 0}
}
