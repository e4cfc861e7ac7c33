package compiler

import (
	"testing"

	"minicpu/pkg/cpu"
)

const benchSource = `
n = 5
s = 0
d = 0
while d
  s = s + n
  n = n - 1
  if n
    d = 1
  endif
endwhile
if s == 15
  s = s ^ 255
endif
return s
`

func BenchmarkCompile(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileAndRun(b *testing.B) {
	out, err := Compile(benchSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := cpu.New(cpu.DefaultMemorySize)
		if err := c.Load(out.Image); err != nil {
			b.Fatal(err)
		}
		if _, err := c.Run(10000); err != nil {
			b.Fatal(err)
		}
	}
}
