package cpu

import (
	"fmt"
	"io"
)

// Status describes why Run returned.
type Status int

const (
	// Running means the CPU stopped on an error before halting.
	Running Status = iota
	// Halted means a HALT instruction was executed.
	Halted
	// StepLimitExceeded means the step budget ran out first.
	StepLimitExceeded
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case StepLimitExceeded:
		return "step limit exceeded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is what Run reports back to the caller.
type Result struct {
	ACC    uint8
	Steps  int
	Status Status
}

// CPU is a single-accumulator machine with one shared address space.
//
//	fetch  : read the opcode byte at IP
//	decode : map it to a handler
//	execute: run the handler, latch flags, advance IP unless the handler jumped
type CPU struct {
	Memory *Memory
	ALU    ALU

	IP  int
	ACC uint8

	Z bool
	N bool

	Halted bool

	// Steps counts instructions executed since the last Reset.
	Steps int

	// Trace, when set, receives a state dump before every cycle of Run.
	Trace io.Writer
}

// New creates a CPU with memSize bytes of zeroed memory. A non-positive size
// selects DefaultMemorySize.
func New(memSize int) *CPU {
	if memSize <= 0 {
		memSize = DefaultMemorySize
	}
	return &CPU{Memory: NewMemory(memSize)}
}

// Load copies a machine image into memory at address 0.
func (c *CPU) Load(image []byte) error {
	if len(image) > c.Memory.Len() {
		return &ProgramTooLarge{Size: len(image), Capacity: c.Memory.Len()}
	}
	return c.Memory.Load(image, 0)
}

// Reset puts the registers back to their power-on values. Memory is kept.
func (c *CPU) Reset() {
	c.IP = 0
	c.ACC = 0
	c.Z = false
	c.N = false
	c.Halted = false
	c.Steps = 0
}

func (c *CPU) fetch() (Opcode, error) {
	b, err := c.Memory.Read(c.IP)
	if err != nil {
		return 0, err
	}
	op := Opcode(b)
	if !op.Valid() {
		return 0, &InvalidOpcode{Addr: c.IP, Byte: b}
	}
	return op, nil
}

func (c *CPU) decode(op Opcode) handler {
	return handlers[op]
}

// Step executes one instruction. It is a no-op once the CPU has halted.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}

	op, err := c.fetch()
	if err != nil {
		return err
	}
	out, err := c.decode(op)(c)
	if err != nil {
		return fmt.Errorf("%s at 0x%02X: %w", op, c.IP, err)
	}
	c.Steps++

	if out.flags != nil {
		c.Z = out.flags.Z
		c.N = out.flags.N
	}
	if !out.cont {
		c.Halted = true
		return nil
	}
	if !out.jumped {
		c.IP += op.Size()
	}
	return nil
}

// Run executes until HALT or until maxSteps instructions have run, whichever
// comes first. Reaching the limit is reported through Result.Status, not as an
// error.
func (c *CPU) Run(maxSteps int) (Result, error) {
	start := c.Steps
	for !c.Halted && c.Steps-start < maxSteps {
		if c.Trace != nil {
			c.DumpState(c.Trace, c.Steps)
		}
		if err := c.Step(); err != nil {
			return Result{ACC: c.ACC, Steps: c.Steps - start, Status: Running}, err
		}
	}

	res := Result{ACC: c.ACC, Steps: c.Steps - start, Status: StepLimitExceeded}
	if c.Halted {
		res.Status = Halted
	}
	return res, nil
}
