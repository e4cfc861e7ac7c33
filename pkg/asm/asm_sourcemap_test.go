package asm

import (
	"testing"
)

func TestParseSourceMap(t *testing.T) {
	code := `
; Line 2: Comment
LDI 10          ; Line 3: two bytes at 0x00
                ; Line 4: Empty
NOT             ; Line 5: one byte at 0x02
STA 0xA0        ; Line 6: two bytes at 0x03
// Line 7
HALT            ; Line 8: one byte at 0x05
`
	prog, sourceMap, err := ParseWithSourceMap(code)
	if err != nil {
		t.Fatalf("ParseWithSourceMap failed: %v", err)
	}
	if len(prog) != 4 {
		t.Fatalf("got %d instructions, want 4", len(prog))
	}

	tests := []struct {
		addr int
		line int
	}{
		{0x00, 3},
		{0x02, 5},
		{0x03, 6},
		{0x05, 8},
	}
	for _, tc := range tests {
		if got := sourceMap[tc.addr]; got != tc.line {
			t.Errorf("sourceMap[0x%02X] = %d; want %d", tc.addr, got, tc.line)
		}
	}
	if len(sourceMap) != len(tests) {
		t.Errorf("sourceMap has %d entries, want %d: %v", len(sourceMap), len(tests), sourceMap)
	}
	// Operand bytes do not start an instruction.
	if _, ok := sourceMap[0x01]; ok {
		t.Errorf("operand byte 0x01 should not be mapped")
	}
}

func TestParseSourceMap_Error(t *testing.T) {
	_, sourceMap, err := ParseWithSourceMap("LDI 1\nBOGUS\n")
	if err == nil {
		t.Fatal("expected an error")
	}
	if sourceMap != nil {
		t.Errorf("sourceMap should be nil on error, got %v", sourceMap)
	}
}
