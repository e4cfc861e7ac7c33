package cpu

// DefaultMemorySize is the size of the address space reachable by a one-byte
// operand.
const DefaultMemorySize = 256

// Memory is the single address space shared by code, variables and
// temporaries. There is no protection between regions.
type Memory struct {
	cells []byte
}

// NewMemory returns zeroed memory of the given size.
func NewMemory(size int) *Memory {
	return &Memory{cells: make([]byte, size)}
}

// Len returns the number of addressable bytes.
func (m *Memory) Len() int { return len(m.cells) }

// Read returns the byte at addr.
func (m *Memory) Read(addr int) (byte, error) {
	if addr < 0 || addr >= len(m.cells) {
		return 0, &MemoryFault{Addr: addr, Size: len(m.cells)}
	}
	return m.cells[addr], nil
}

// Write stores val at addr.
func (m *Memory) Write(addr int, val byte) error {
	if addr < 0 || addr >= len(m.cells) {
		return &MemoryFault{Addr: addr, Size: len(m.cells)}
	}
	m.cells[addr] = val
	return nil
}

// Load copies data into memory starting at address at. Nothing is written
// unless the whole of data fits.
func (m *Memory) Load(data []byte, at int) error {
	if at < 0 || at+len(data) > len(m.cells) {
		return &ProgramTooLarge{Size: at + len(data), Capacity: len(m.cells)}
	}
	copy(m.cells[at:], data)
	return nil
}

// Bytes returns a copy of the whole address space.
func (m *Memory) Bytes() []byte {
	out := make([]byte, len(m.cells))
	copy(out, m.cells)
	return out
}
