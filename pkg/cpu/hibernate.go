package cpu

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// humanReadableState is the JSON-serializable snapshot of CPU control state.
type humanReadableState struct {
	IP         int    `json:"ip"`
	ACC        uint8  `json:"acc"`
	Z          bool   `json:"z"`
	N          bool   `json:"n"`
	Halted     bool   `json:"halted"`
	Steps      int    `json:"steps"`
	MemorySize int    `json:"memory_size"`
}

// HibernateToBytes serialises the complete machine state into an in-memory
// ZIP archive holding cpu_state.json and memory.bin.
func (c *CPU) HibernateToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	state := humanReadableState{
		IP:         c.IP,
		ACC:        c.ACC,
		Z:          c.Z,
		N:          c.N,
		Halted:     c.Halted,
		Steps:      c.Steps,
		MemorySize: c.Memory.Len(),
	}
	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cpu_state: %w", err)
	}
	if err := writeZipEntry(zw, "cpu_state.json", jsonData); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "memory.bin", c.Memory.cells); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes builds a CPU from an archive produced by HibernateToBytes.
// Execution continues from the saved IP.
func RestoreFromBytes(data []byte) (*CPU, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "cpu_state.json")
	if err != nil {
		return nil, err
	}
	var state humanReadableState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return nil, fmt.Errorf("unmarshal cpu_state: %w", err)
	}
	if state.MemorySize <= 0 {
		return nil, fmt.Errorf("cpu_state: invalid memory size %d", state.MemorySize)
	}
	if state.IP < 0 {
		return nil, fmt.Errorf("cpu_state: invalid ip %d", state.IP)
	}

	memData, err := readZipEntry(fileMap, "memory.bin")
	if err != nil {
		return nil, err
	}
	if len(memData) != state.MemorySize {
		return nil, fmt.Errorf("memory.bin holds %d bytes, cpu_state says %d", len(memData), state.MemorySize)
	}

	c := New(state.MemorySize)
	copy(c.Memory.cells, memData)
	c.IP = state.IP
	c.ACC = state.ACC
	c.Z = state.Z
	c.N = state.N
	c.Halted = state.Halted
	c.Steps = state.Steps
	return c, nil
}

// HibernateToFile writes the hibernation archive to the given file path.
func (c *CPU) HibernateToFile(path string) error {
	data, err := c.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RestoreFromFile reads a hibernation archive from the given file path.
func RestoreFromFile(path string) (*CPU, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return RestoreFromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
