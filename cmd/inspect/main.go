// Command inspect prints every stage of compiling a program: tokens, the
// AST, the generated pseudo-assembly with addresses, and the variable map.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"minicpu/pkg/asm"
	"minicpu/pkg/compiler"
)

const testSource = `x = 10
y = 20
if x == 10
  y = y + x
endif
return y
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Printf("  %d:%d\t%s\n", tok.Line, tok.Col, tok)
	}
	fmt.Println()

	prog, err := compiler.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fmt.Println("AST")
	fmt.Println(" ", prog)
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Dump(prog)
	fmt.Println()

	syms := compiler.NewSymbolTable()
	code, err := compiler.Generate(prog, syms)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Printf("Generated Assembly (%d bytes)\n", asm.Length(code))
	fmt.Print(asm.Listing(code))
	fmt.Println()
	fmt.Print(syms)

	image, err := asm.Assemble(code)
	if err != nil {
		fmt.Fprintln(os.Stderr, "assembly error:", err)
		os.Exit(1)
	}
	fmt.Printf("\nImage\n  % X\n", image)
}
