package cpu

import "fmt"

// Opcode is the byte value of an instruction as it sits in memory.
type Opcode byte

const (
	OpNOP  Opcode = 0x00
	OpLDI  Opcode = 0x01
	OpLDA  Opcode = 0x02
	OpSTA  Opcode = 0x03
	OpADD  Opcode = 0x10
	OpSUB  Opcode = 0x11
	OpAND  Opcode = 0x12
	OpOR   Opcode = 0x13
	OpXOR  Opcode = 0x14
	OpNOT  Opcode = 0x15
	OpJMP  Opcode = 0x20
	OpJZ   Opcode = 0x21
	OpJNZ  Opcode = 0x22
	OpHALT Opcode = 0xFF
)

// NumOpcodes is the size of the instruction set.
const NumOpcodes = 14

type opcodeDef struct {
	op       Opcode
	mnemonic string
	operands int
}

// opcodeTable lists every instruction once. The blank declaration below makes
// the build fail if an entry is added or removed without updating NumOpcodes.
var opcodeTable = [...]opcodeDef{
	{OpNOP, "NOP", 0},
	{OpLDI, "LDI", 1},
	{OpLDA, "LDA", 1},
	{OpSTA, "STA", 1},
	{OpADD, "ADD", 1},
	{OpSUB, "SUB", 1},
	{OpAND, "AND", 1},
	{OpOR, "OR", 1},
	{OpXOR, "XOR", 1},
	{OpNOT, "NOT", 0},
	{OpJMP, "JMP", 1},
	{OpJZ, "JZ", 1},
	{OpJNZ, "JNZ", 1},
	{OpHALT, "HALT", 0},
}

var _ [NumOpcodes]struct{} = [len(opcodeTable)]struct{}{}

var (
	// byteToDef is indexed by opcode byte; -1 marks an unmapped byte.
	byteToDef [256]int
	// mnemonicToOp is the reverse lookup used by the assembler.
	mnemonicToOp = make(map[string]Opcode, NumOpcodes)
)

func init() {
	for i := range byteToDef {
		byteToDef[i] = -1
	}
	for i, def := range opcodeTable {
		if byteToDef[def.op] != -1 {
			panic(fmt.Sprintf("cpu: duplicate opcode 0x%02X", byte(def.op)))
		}
		if _, dup := mnemonicToOp[def.mnemonic]; dup {
			panic("cpu: duplicate mnemonic " + def.mnemonic)
		}
		byteToDef[def.op] = i
		mnemonicToOp[def.mnemonic] = def.op
	}
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	return byteToDef[op] >= 0
}

// Mnemonic returns the assembler name of op, or "" for an unmapped byte.
func (op Opcode) Mnemonic() string {
	if i := byteToDef[op]; i >= 0 {
		return opcodeTable[i].mnemonic
	}
	return ""
}

// Operands returns how many operand bytes follow op in memory.
func (op Opcode) Operands() int {
	if i := byteToDef[op]; i >= 0 {
		return opcodeTable[i].operands
	}
	return 0
}

// Size is the encoded length of an instruction in bytes.
func (op Opcode) Size() int {
	return 1 + op.Operands()
}

func (op Opcode) String() string {
	if m := op.Mnemonic(); m != "" {
		return m
	}
	return fmt.Sprintf("Opcode(0x%02X)", byte(op))
}

// Lookup returns the opcode for an upper-case mnemonic.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := mnemonicToOp[mnemonic]
	return op, ok
}

// Opcodes returns the instruction set in table order.
func Opcodes() []Opcode {
	out := make([]Opcode, len(opcodeTable))
	for i, def := range opcodeTable {
		out[i] = def.op
	}
	return out
}
