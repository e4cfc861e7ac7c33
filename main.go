// Command minicpu compiles, assembles and runs programs for the 8-bit
// accumulator machine.
//
//	minicpu run prog.mc
//	minicpu build prog.mc -o prog.bin --show-asm
//	minicpu asm prog.asm
//	minicpu disasm prog.bin
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"minicpu/pkg/asm"
	"minicpu/pkg/compiler"
	"minicpu/pkg/config"
	"minicpu/pkg/cpu"
	"minicpu/pkg/utils"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("minicpu: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minicpu",
		Short: "Compiler, assembler and emulator for an 8-bit accumulator machine",
		Long: `minicpu takes programs written in a tiny line-oriented language
(assignments, if/endif, while/endwhile, return) down to bytes for a virtual
single-accumulator CPU with 256 bytes of memory, and runs them.

Inputs are chosen by extension: .bin is a raw image, .asm is pseudo-assembly,
.zip is a hibernated CPU, anything else is source.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd(), newBuildCmd(), newAsmCmd(), newDisasmCmd())
	return root
}

type runOptions struct {
	envFile  string
	memSize  int
	maxSteps int
	verbose  bool
	snapshot string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run file",
		Short: "Run a program to HALT or the step limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return runFile(cmd.OutOrStdout(), args[0], cfg, opts.snapshot)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.envFile, "env", "", "read settings from this .env file instead of ./.env")
	f.IntVar(&opts.memSize, "mem", config.DefaultMemorySize, "memory size in bytes (multiple of 16)")
	f.IntVar(&opts.maxSteps, "max-steps", config.DefaultMaxSteps, "stop after this many instructions")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "dump CPU state before every instruction")
	f.StringVar(&opts.snapshot, "snapshot", "", "hibernate the CPU to this .zip file after the run")
	return cmd
}

// resolveConfig layers explicitly set flags over .env and environment values.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (config.Config, error) {
	var files []string
	if opts.envFile != "" {
		files = append(files, opts.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("mem") {
		cfg.MemorySize = opts.memSize
	}
	if f.Changed("max-steps") {
		cfg.MaxSteps = opts.maxSteps
	}
	if f.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runFile(w io.Writer, path string, cfg config.Config, snapshot string) error {
	var vm *cpu.CPU
	if utils.KindOf(path) == utils.KindSnapshot {
		restored, err := cpu.RestoreFromFile(path)
		if err != nil {
			return fmt.Errorf("restore failed for %q: %w", path, err)
		}
		vm = restored
	} else {
		image, _, err := buildImage(path, cfg.MemorySize)
		if err != nil {
			return err
		}
		vm = cpu.New(cfg.MemorySize)
		if err := vm.Load(image); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		vm.Trace = w
	}
	res, err := vm.Run(cfg.MaxSteps)
	if err != nil {
		return fmt.Errorf("run failed for %q: %w", path, err)
	}

	fmt.Fprintf(w, "run complete (%s): %s after %d steps, IP=0x%02X ACC=%d Z=%t N=%t\n",
		path, res.Status, res.Steps, vm.IP, res.ACC, vm.Z, vm.N)

	if snapshot != "" {
		if err := vm.HibernateToFile(snapshot); err != nil {
			return fmt.Errorf("failed to write snapshot %q: %w", snapshot, err)
		}
		fmt.Fprintf(w, "snapshot -> %s\n", snapshot)
	}
	return nil
}

// buildImage turns path into a machine image according to its extension.
// The pseudo-assembly is returned too when the input was not a raw image.
// Raw images larger than limit bytes are refused before loading.
func buildImage(path string, limit int) (image []byte, assembly string, err error) {
	kind := utils.KindOf(path)
	if kind == utils.KindSnapshot {
		return nil, "", fmt.Errorf("%s is a CPU snapshot, not a program", path)
	}
	if kind == utils.KindImage {
		image, err = utils.ReadImage(path, limit)
		return image, "", err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input file %q: %w", path, err)
	}

	if kind == utils.KindAssembly {
		prog, err := asm.Parse(string(source))
		if err != nil {
			return nil, "", fmt.Errorf("assembly failed: %w", err)
		}
		image, err = asm.Assemble(prog)
		if err != nil {
			return nil, "", fmt.Errorf("assembly failed: %w", err)
		}
		return image, asm.Format(prog), nil
	}

	out, err := compiler.Compile(string(source))
	if err != nil {
		return nil, "", fmt.Errorf("compilation failed: %w", err)
	}
	return out.Image, out.Assembly, nil
}

func newBuildCmd() *cobra.Command {
	var outPath string
	var showAsm bool
	cmd := &cobra.Command{
		Use:   "build file",
		Short: "Compile or assemble a program into a .bin image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			if utils.KindOf(in) == utils.KindImage {
				return fmt.Errorf("%s is already an image", in)
			}
			image, assembly, err := buildImage(in, config.MaxMemorySize)
			if err != nil {
				return err
			}
			if showAsm {
				fmt.Fprint(cmd.OutOrStdout(), assembly)
			}
			return writeOutput(cmd.OutOrStdout(), in, outPath, image)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output image path (default: input with .bin extension)")
	cmd.Flags().BoolVar(&showAsm, "show-asm", false, "print the generated pseudo-assembly")
	return cmd
}

func newAsmCmd() *cobra.Command {
	var outPath string
	var showMap bool
	cmd := &cobra.Command{
		Use:   "asm file",
		Short: "Assemble pseudo-assembly text into a .bin image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file %q: %w", args[0], err)
			}
			prog, sourceMap, err := asm.ParseWithSourceMap(string(source))
			if err != nil {
				return fmt.Errorf("assembly failed: %w", err)
			}
			image, err := asm.Assemble(prog)
			if err != nil {
				return fmt.Errorf("assembly failed: %w", err)
			}
			if showMap {
				addr := 0
				for _, in := range prog {
					fmt.Fprintf(cmd.OutOrStdout(), "%02X: line %-4d %s\n", addr, sourceMap[addr], in)
					addr += in.Size()
				}
			}
			return writeOutput(cmd.OutOrStdout(), args[0], outPath, image)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output image path (default: input with .bin extension)")
	cmd.Flags().BoolVar(&showMap, "map", false, "print the address and source line of every instruction")
	return cmd
}

func writeOutput(w io.Writer, in, out string, image []byte) error {
	if out == "" {
		out = utils.DefaultOutputPath(in)
	}
	if err := utils.WriteImage(out, image); err != nil {
		return fmt.Errorf("failed to write binary file %q: %w", out, err)
	}
	fmt.Fprintf(w, "assembled %d bytes -> %s\n", len(image), out)
	return nil
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm file.bin",
		Short: "List the instructions in a .bin image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := utils.ReadImage(args[0], config.MaxMemorySize)
			if err != nil {
				return err
			}
			prog, err := asm.Disassemble(image)
			if err != nil {
				return fmt.Errorf("disassembly failed: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), asm.Listing(prog))
			return nil
		},
	}
}
