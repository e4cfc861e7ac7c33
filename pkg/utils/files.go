package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind says how a command line input file is turned into a machine image.
type Kind int

const (
	KindSource   Kind = iota // compiled by the compiler
	KindAssembly             // .asm, assembled directly
	KindImage                // .bin, loaded as-is
	KindSnapshot             // .zip, a hibernated CPU
)

func (k Kind) String() string {
	switch k {
	case KindAssembly:
		return "assembly"
	case KindImage:
		return "image"
	case KindSnapshot:
		return "snapshot"
	}
	return "source"
}

// KindOf classifies path by its extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s":
		return KindAssembly
	case ".bin":
		return KindImage
	case ".zip":
		return KindSnapshot
	}
	return KindSource
}

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// DefaultOutputPath swaps the extension of inPath for .bin.
func DefaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".bin"
	}
	return strings.TrimSuffix(inPath, ext) + ".bin"
}

func WriteImage(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// ReadImage reads a raw machine image, refusing anything larger than limit
// bytes when limit is positive.
func ReadImage(path string, limit int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(data) > limit {
		return nil, fmt.Errorf("%s: image is %d bytes, memory holds %d", path, len(data), limit)
	}
	return data, nil
}
