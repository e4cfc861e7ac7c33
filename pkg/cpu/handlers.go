package cpu

import "fmt"

// outcome is what an instruction handler reports to the control unit.
type outcome struct {
	cont   bool   // false stops the machine
	flags  *Flags // nil leaves Z and N untouched
	jumped bool   // true when the handler already set IP
}

type handler func(c *CPU) (outcome, error)

var next = outcome{cont: true}

var handlers [256]handler

func init() {
	table := map[Opcode]handler{
		OpNOP:  func(*CPU) (outcome, error) { return next, nil },
		OpLDI:  handleLDI,
		OpLDA:  handleLDA,
		OpSTA:  handleSTA,
		OpADD:  aluWithMemory(ALUAdd),
		OpSUB:  aluWithMemory(ALUSub),
		OpAND:  aluWithMemory(ALUAnd),
		OpOR:   aluWithMemory(ALUOr),
		OpXOR:  aluWithMemory(ALUXor),
		OpNOT:  handleNOT,
		OpJMP:  jumpWhen(func(*CPU) bool { return true }),
		OpJZ:   jumpWhen(func(c *CPU) bool { return c.Z }),
		OpJNZ:  jumpWhen(func(c *CPU) bool { return !c.Z }),
		OpHALT: func(*CPU) (outcome, error) { return outcome{}, nil },
	}
	for _, op := range Opcodes() {
		h, ok := table[op]
		if !ok {
			panic(fmt.Sprintf("cpu: no handler for %s", op))
		}
		handlers[op] = h
	}
}

// operand returns the byte following the opcode at IP.
func (c *CPU) operand() (byte, error) {
	return c.Memory.Read(c.IP + 1)
}

func handleLDI(c *CPU) (outcome, error) {
	imm, err := c.operand()
	if err != nil {
		return outcome{}, err
	}
	c.ACC = imm
	return next, nil
}

func handleLDA(c *CPU) (outcome, error) {
	addr, err := c.operand()
	if err != nil {
		return outcome{}, err
	}
	val, err := c.Memory.Read(int(addr))
	if err != nil {
		return outcome{}, err
	}
	c.ACC = val
	return next, nil
}

func handleSTA(c *CPU) (outcome, error) {
	addr, err := c.operand()
	if err != nil {
		return outcome{}, err
	}
	if err := c.Memory.Write(int(addr), c.ACC); err != nil {
		return outcome{}, err
	}
	return next, nil
}

func handleNOT(c *CPU) (outcome, error) {
	res, flags := c.ALU.Operate(ALUNot, c.ACC, 0)
	c.ACC = res
	return outcome{cont: true, flags: &flags}, nil
}

// aluWithMemory builds a handler computing ACC = ACC op MEM[operand].
func aluWithMemory(op ALUOp) handler {
	return func(c *CPU) (outcome, error) {
		addr, err := c.operand()
		if err != nil {
			return outcome{}, err
		}
		val, err := c.Memory.Read(int(addr))
		if err != nil {
			return outcome{}, err
		}
		res, flags := c.ALU.Operate(op, c.ACC, val)
		c.ACC = res
		return outcome{cont: true, flags: &flags}, nil
	}
}

// jumpWhen builds a jump handler. A jump not taken skips its two bytes.
func jumpWhen(taken func(c *CPU) bool) handler {
	return func(c *CPU) (outcome, error) {
		target, err := c.operand()
		if err != nil {
			return outcome{}, err
		}
		if taken(c) {
			c.IP = int(target)
		} else {
			c.IP += 2
		}
		return outcome{cont: true, jumped: true}, nil
	}
}
