package cpu

import "fmt"

// InvalidOpcode is returned when the CPU fetches a byte that is not in the
// opcode table.
type InvalidOpcode struct {
	Addr int
	Byte byte
}

func (e *InvalidOpcode) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02X at address 0x%02X", e.Byte, e.Addr)
}

// ProgramTooLarge is returned by Load when the image does not fit in memory.
type ProgramTooLarge struct {
	Size     int
	Capacity int
}

func (e *ProgramTooLarge) Error() string {
	return fmt.Sprintf("program too large for memory: %d bytes > %d bytes", e.Size, e.Capacity)
}

// MemoryFault is returned on a read or write outside the address space.
type MemoryFault struct {
	Addr int
	Size int
}

func (e *MemoryFault) Error() string {
	return fmt.Sprintf("memory access out of range: address 0x%02X, memory size %d", e.Addr, e.Size)
}
