package main

import (
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"

	"minicpu/pkg/compiler"
	"minicpu/pkg/cpu"
)

// stepsPerFrame bounds how much work free-running does inside one Update.
const stepsPerFrame = 64

// session is the debugger state behind the window: the CPU, the image it was
// loaded from, and whether it is free-running.
type session struct {
	vm      *cpu.CPU
	image   []byte
	memSize int
	running bool
	err     error
}

func newSession(image []byte, memSize int) (*session, error) {
	s := &session{image: image, memSize: memSize}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// reset reloads the image into a fresh CPU and pauses.
func (s *session) reset() error {
	vm := cpu.New(s.memSize)
	if err := vm.Load(s.image); err != nil {
		return err
	}
	s.vm = vm
	s.running = false
	s.err = nil
	return nil
}

func (s *session) stopped() bool {
	return s.vm.Halted || s.err != nil
}

// step executes one instruction unless the CPU has halted or faulted.
func (s *session) step() {
	if s.stopped() {
		return
	}
	if err := s.vm.Step(); err != nil {
		s.err = err
		s.running = false
	}
}

func (s *session) toggle() {
	if s.stopped() {
		s.running = false
		return
	}
	s.running = !s.running
}

// tick advances a free-running CPU by up to n instructions.
func (s *session) tick(n int) {
	for i := 0; i < n && s.running && !s.stopped(); i++ {
		s.step()
	}
	if s.stopped() {
		s.running = false
	}
}

func (s *session) status() string {
	switch {
	case s.err != nil:
		return "fault: " + s.err.Error()
	case s.vm.Halted:
		return "halted"
	case s.running:
		return "running"
	}
	return "paused"
}

func (s *session) registers() string {
	return fmt.Sprintf("IP=0x%02X  ACC=%3d (0x%02X)  Z=%d N=%d  steps=%d  [%s]",
		s.vm.IP, s.vm.ACC, s.vm.ACC, flag(s.vm.Z), flag(s.vm.N), s.vm.Steps, s.status())
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// cellColor picks the background of memory cell addr.
func (s *session) cellColor(addr int) color.Color {
	switch {
	case addr == s.vm.IP:
		return colornames.Goldenrod
	case addr < len(s.image):
		return colornames.Darkslategray
	case addr >= compiler.TempBase && addr < compiler.TempBase+compiler.MaxTempDepth:
		return colornames.Darkred
	case addr >= compiler.VarBase && addr < compiler.TempBase:
		return colornames.Steelblue
	}
	return colornames.Black
}
