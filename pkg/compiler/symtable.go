package compiler

import (
	"fmt"
	"strings"
)

// Memory layout shared by the code generator and the CPU image.
const (
	// VarBase is the address of the first variable. Generated code must end
	// below it.
	VarBase = 0xA0
	// TempBase is the scratch cell for expression depth 0; depth d uses
	// TempBase+d.
	TempBase = 0xF0
	// MaxTempDepth is the number of scratch cells above TempBase.
	MaxTempDepth = 0x100 - TempBase
	// MaxVariables is how many variables fit between VarBase and TempBase.
	MaxVariables = TempBase - VarBase
)

// Symbol is a variable and the memory cell assigned to it.
type Symbol struct {
	Name    string
	Address int
}

// SymbolTable maps variable names to memory addresses. Addresses are handed
// out in first-seen order starting at VarBase and never change afterwards.
type SymbolTable struct {
	addrs map[string]int
	order []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addrs: make(map[string]int)}
}

// Reset forgets every symbol.
func (s *SymbolTable) Reset() {
	s.addrs = make(map[string]int)
	s.order = nil
}

// Allocate returns the address of name, assigning the next free one if name
// has not been seen. existed reports whether name was already present.
func (s *SymbolTable) Allocate(name string) (addr int, existed bool, err error) {
	if a, ok := s.addrs[name]; ok {
		return a, true, nil
	}
	if len(s.order) >= MaxVariables {
		return 0, false, fmt.Errorf("too many variables: %q would be number %d, limit is %d", name, len(s.order)+1, MaxVariables)
	}
	a := VarBase + len(s.order)
	s.addrs[name] = a
	s.order = append(s.order, name)
	return a, false, nil
}

// Lookup returns the address of name and whether it was found.
func (s *SymbolTable) Lookup(name string) (int, bool) {
	a, ok := s.addrs[name]
	return a, ok
}

// Len returns the number of variables.
func (s *SymbolTable) Len() int { return len(s.order) }

// Symbols returns the table in allocation order.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(s.order))
	for i, name := range s.order {
		out[i] = Symbol{Name: name, Address: s.addrs[name]}
	}
	return out
}

// String returns the table in allocation order.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.order) == 0 {
		sb.WriteString("Variables: (empty)\n")
		return sb.String()
	}
	sb.WriteString("Variables:\n")
	for _, sym := range s.Symbols() {
		fmt.Fprintf(&sb, "  %-20s  Address: 0x%02X\n", sym.Name, sym.Address)
	}
	return sb.String()
}
