package compiler

import (
	"fmt"

	"minicpu/pkg/asm"
)

// Output carries every intermediate product of a compilation so callers can
// inspect any stage.
type Output struct {
	Tokens       []Token
	Program      *Block
	Instructions []asm.Instruction
	Assembly     string
	Image        []byte
	Symbols      *SymbolTable
}

// Compile runs src through the whole pipeline: lex, parse, generate and
// assemble. The returned error wraps a *LexError, *ParseError,
// *CodegenError or *asm.AssembleError.
func Compile(src string) (*Output, error) {
	out := &Output{Symbols: NewSymbolTable()}

	var err error
	out.Tokens, err = Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	out.Program, err = Parse(out.Tokens)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	out.Instructions, err = Generate(out.Program, out.Symbols)
	if err != nil {
		return nil, fmt.Errorf("codegen error: %w", err)
	}
	return assemble(out)
}

// assemble fills in the listing and machine image for out.Instructions.
func assemble(out *Output) (*Output, error) {
	out.Assembly = asm.Format(out.Instructions)
	image, err := asm.Assemble(out.Instructions)
	if err != nil {
		return nil, fmt.Errorf("assembly error: %w", err)
	}
	out.Image = image
	return out, nil
}
