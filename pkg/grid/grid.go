// Package grid maps linear memory addresses onto the rows and columns used
// when memory is shown as a table.
package grid

// MemoryColumns is the row width used for memory dumps.
const MemoryColumns = 16

// GetGridCoords returns the column and row of index in a table cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// RowStart returns the first index of the row containing index.
func RowStart(index, cols int) int {
	return index - index%cols
}

// Rows returns how many rows of width cols are needed for n cells.
func Rows(n, cols int) int {
	return (n + cols - 1) / cols
}
