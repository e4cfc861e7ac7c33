// Package asm converts between pseudo-instructions, their text form, and the
// flat byte image executed by the CPU.
//
// The assembler does no relocation and no symbol resolution: every operand is
// already an absolute address or an immediate when it arrives here.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"minicpu/pkg/cpu"
)

// Instruction is one pseudo-assembly instruction: a mnemonic and, for
// opcodes that take one, a single operand.
type Instruction struct {
	Op         cpu.Opcode
	Operand    int
	HasOperand bool
}

// Op builds an instruction without an operand.
func Op(op cpu.Opcode) Instruction {
	return Instruction{Op: op}
}

// OpArg builds an instruction with an operand.
func OpArg(op cpu.Opcode, operand int) Instruction {
	return Instruction{Op: op, Operand: operand, HasOperand: true}
}

// Size is the encoded length of in in bytes.
func (in Instruction) Size() int {
	return in.Op.Size()
}

// String renders in the way Format writes it: immediates in decimal,
// addresses in hex.
func (in Instruction) String() string {
	if !in.HasOperand {
		return in.Op.String()
	}
	if in.Op == cpu.OpLDI {
		return fmt.Sprintf("%s %d", in.Op, in.Operand)
	}
	return fmt.Sprintf("%s 0x%02X", in.Op, in.Operand)
}

// Length returns the byte length of prog once assembled.
func Length(prog []Instruction) int {
	n := 0
	for _, in := range prog {
		n += in.Size()
	}
	return n
}

// AssembleError reports an instruction that cannot be encoded. Line is set
// for text input, Index for instruction slices.
type AssembleError struct {
	Line  int
	Index int
	Msg   string
}

func (e *AssembleError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("instruction %d: %s", e.Index, e.Msg)
}

// Assemble encodes prog: the opcode byte, then the operand byte if present.
func Assemble(prog []Instruction) ([]byte, error) {
	out := make([]byte, 0, Length(prog))
	for i, in := range prog {
		if err := check(in); err != nil {
			return nil, &AssembleError{Index: i, Msg: err.Error()}
		}
		out = append(out, byte(in.Op))
		if in.HasOperand {
			out = append(out, byte(in.Operand))
		}
	}
	return out, nil
}

// check validates opcode, arity and operand range.
func check(in Instruction) error {
	if !in.Op.Valid() {
		return fmt.Errorf("unknown opcode 0x%02X", byte(in.Op))
	}
	want := in.Op.Operands()
	got := 0
	if in.HasOperand {
		got = 1
	}
	if got != want {
		return fmt.Errorf("%s expects %d operand(s), got %d", in.Op, want, got)
	}
	if in.HasOperand && (in.Operand < 0 || in.Operand > 0xFF) {
		return fmt.Errorf("operand out of range for %s: %d", in.Op, in.Operand)
	}
	return nil
}

// AssembleText parses pseudo-assembly text and encodes it.
func AssembleText(code string) ([]byte, error) {
	prog, err := Parse(code)
	if err != nil {
		return nil, err
	}
	return Assemble(prog)
}

type parsedLine struct {
	lineNo   int
	mnemonic string
	operands []string
}

// Parse reads pseudo-assembly text: one "MNEMONIC [OPERAND]" per line,
// operands in decimal or 0x-prefixed hex. Comments start with ';' or '//'.
func Parse(code string) ([]Instruction, error) {
	prog, _, err := ParseWithSourceMap(code)
	return prog, err
}

// ParseWithSourceMap is Parse that also reports, for the byte address of
// every instruction, the 1-based text line it came from.
func ParseWithSourceMap(code string) ([]Instruction, map[int]int, error) {
	var prog []Instruction
	sourceMap := make(map[int]int)
	addr := 0
	for i, raw := range strings.Split(code, "\n") {
		p := parseLine(raw, i+1)
		if p.mnemonic == "" {
			continue
		}

		op, ok := cpu.Lookup(p.mnemonic)
		if !ok {
			return nil, nil, &AssembleError{Line: p.lineNo, Msg: fmt.Sprintf("unknown instruction: %s", p.mnemonic)}
		}
		if len(p.operands) != op.Operands() {
			return nil, nil, &AssembleError{Line: p.lineNo, Msg: fmt.Sprintf("%s expects %d operand(s)", op, op.Operands())}
		}

		in := Op(op)
		if len(p.operands) > 0 {
			val, err := parseImmediate(p.operands[0])
			if err != nil {
				return nil, nil, &AssembleError{Line: p.lineNo, Msg: err.Error()}
			}
			in = OpArg(op, val)
		}
		sourceMap[addr] = p.lineNo
		addr += in.Size()
		prog = append(prog, in)
	}
	return prog, sourceMap, nil
}

func parseLine(raw string, lineNo int) parsedLine {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	line = normalizeInstructionText(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p
	}

	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}
	return p
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func normalizeInstructionText(line string) string {
	replacer := strings.NewReplacer(",", " ", "\t", " ")
	return replacer.Replace(line)
}

// parseImmediate accepts decimal or 0x-prefixed hex in 0..255.
func parseImmediate(token string) (int, error) {
	base := 10
	digits := token
	if strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X") {
		base = 16
		digits = token[2:]
	}
	value, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid operand '%s'", token)
	}
	if value > 0xFF {
		return 0, fmt.Errorf("operand out of range: %s", token)
	}
	return int(value), nil
}

// Format renders prog as pseudo-assembly text, one instruction per line.
func Format(prog []Instruction) string {
	var b strings.Builder
	for _, in := range prog {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Disassemble decodes a machine image back into instructions.
func Disassemble(image []byte) ([]Instruction, error) {
	var prog []Instruction
	for addr := 0; addr < len(image); {
		op := cpu.Opcode(image[addr])
		if !op.Valid() {
			return nil, &AssembleError{Index: len(prog), Msg: fmt.Sprintf("unknown opcode 0x%02X at address 0x%02X", image[addr], addr)}
		}
		if op.Operands() == 0 {
			prog = append(prog, Op(op))
			addr++
			continue
		}
		if addr+1 >= len(image) {
			return nil, &AssembleError{Index: len(prog), Msg: fmt.Sprintf("%s at address 0x%02X is missing its operand", op, addr)}
		}
		prog = append(prog, OpArg(op, int(image[addr+1])))
		addr += 2
	}
	return prog, nil
}

// Listing renders prog with the address of each instruction.
func Listing(prog []Instruction) string {
	var b strings.Builder
	addr := 0
	for _, in := range prog {
		fmt.Fprintf(&b, "%02X: %s\n", addr, in)
		addr += in.Size()
	}
	return b.String()
}
