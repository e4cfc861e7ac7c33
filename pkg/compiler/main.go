// Package compiler provides the lexer, parser and code generator for the
// minicpu source language: assignments, if/endif, while/endwhile and return
// over 8-bit unsigned variables.
//
// Pipeline: source → Lex → Parse → Generate → asm.Assemble → byte image
package compiler
