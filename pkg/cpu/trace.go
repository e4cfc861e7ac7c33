package cpu

import (
	"fmt"
	"io"
	"strings"

	"minicpu/pkg/grid"
)

// DumpState writes the registers, flags and a hex grid of memory to w.
//
//	---
//	Step 3
//	  IP : 6
//	  ACC: 5
//	  Z  : false
//	  N  : false
//	  Memory:
//	   00: 01 02 03 A0 ...
func (c *CPU) DumpState(w io.Writer, step int) {
	var b strings.Builder
	fmt.Fprintf(&b, "---\nStep %d\n", step)
	fmt.Fprintf(&b, "  IP : %d\n", c.IP)
	fmt.Fprintf(&b, "  ACC: %d\n", c.ACC)
	fmt.Fprintf(&b, "  Z  : %t\n", c.Z)
	fmt.Fprintf(&b, "  N  : %t\n", c.N)
	b.WriteString("  Memory:\n")

	mem := c.Memory.cells
	for i := range mem {
		col, row := grid.GetGridCoords(i, grid.MemoryColumns)
		if col == 0 {
			if row > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "   %02X:", i)
		}
		fmt.Fprintf(&b, " %02X", mem[i])
	}
	b.WriteByte('\n')

	io.WriteString(w, b.String())
}
