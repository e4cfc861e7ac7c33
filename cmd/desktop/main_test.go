package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/colornames"

	"minicpu/pkg/compiler"
	"minicpu/pkg/cpu"
)

func compileSession(t *testing.T, src string) *session {
	t.Helper()
	out, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	s, err := newSession(out.Image, cpu.DefaultMemorySize)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	return s
}

func TestSessionStepAndReset(t *testing.T) {
	s := compileSession(t, "x = 2\ny = 5\nreturn x + y")

	s.step()
	if s.vm.IP != 2 || s.vm.ACC != 2 || s.status() != "paused" {
		t.Fatalf("after one step: %s", s.registers())
	}

	s.toggle()
	s.tick(1000)
	if !s.vm.Halted || s.vm.ACC != 7 || s.running {
		t.Fatalf("free run did not halt with 7: %s", s.registers())
	}
	if !strings.Contains(s.registers(), "[halted]") {
		t.Errorf("registers = %q", s.registers())
	}

	// Stepping a halted CPU changes nothing; toggling does not restart it.
	steps := s.vm.Steps
	s.step()
	s.toggle()
	if s.vm.Steps != steps || s.running {
		t.Errorf("halted session moved")
	}

	if err := s.reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.vm.Halted || s.vm.IP != 0 || s.vm.Steps != 0 {
		t.Errorf("reset left %s", s.registers())
	}
}

func TestSessionTickBudget(t *testing.T) {
	s := compileSession(t, "x = 0\nwhile x\nx = x + 0\nendwhile")
	s.toggle()
	s.tick(stepsPerFrame)
	if s.vm.Steps != stepsPerFrame || !s.running {
		t.Errorf("tick ran %d steps, running=%t", s.vm.Steps, s.running)
	}
}

func TestSessionFault(t *testing.T) {
	s, err := newSession([]byte{0x42}, 16)
	if err != nil {
		t.Fatal(err)
	}
	s.toggle()
	s.tick(10)
	var bad *cpu.InvalidOpcode
	if !errors.As(s.err, &bad) || s.running {
		t.Fatalf("expected a stopped session with InvalidOpcode, got %v", s.err)
	}
	if !strings.HasPrefix(s.status(), "fault:") {
		t.Errorf("status = %q", s.status())
	}
}

func TestNewSessionTooLarge(t *testing.T) {
	if _, err := newSession(make([]byte, 32), 16); err == nil {
		t.Errorf("expected ProgramTooLarge")
	}
}

func TestCellColor(t *testing.T) {
	s := compileSession(t, "x = 1")
	tests := []struct {
		addr int
		want any
	}{
		{0, colornames.Goldenrod},
		{2, colornames.Darkslategray},
		{0x50, colornames.Black},
		{0xA0, colornames.Steelblue},
		{0xEF, colornames.Steelblue},
		{compiler.TempBase, colornames.Darkred},
		{0xFF, colornames.Darkred},
	}
	for _, tt := range tests {
		if got := s.cellColor(tt.addr); got != tt.want {
			t.Errorf("cellColor(0x%02X) = %v; want %v", tt.addr, got, tt.want)
		}
	}
}

func TestLoadImageLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.bin")
	if err := os.WriteFile(path, []byte{byte(cpu.OpLDI), 7, byte(cpu.OpHALT)}, 0o644); err != nil {
		t.Fatal(err)
	}
	if img, err := loadImage(path, 16, false); err != nil || len(img) != 3 {
		t.Fatalf("loadImage within limit: %v (%d bytes)", err, len(img))
	}
	if _, err := loadImage(path, 2, false); err == nil || !strings.Contains(err.Error(), "memory holds 2") {
		t.Errorf("expected oversized image error, got %v", err)
	}
}
