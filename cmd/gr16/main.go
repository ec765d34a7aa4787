// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ezrec/gr16/asm"
	"github.com/ezrec/gr16/emulator"
)

// assembler returns an assembler with the emulator defines predefined.
func assembler(verbose bool) (as *asm.Assembler) {
	as = &asm.Assembler{Verbose: verbose}
	for key, value := range emulator.NewEmulator().Defines() {
		as.Predefine(key, value)
	}

	return
}

// loadProgram reads a program image, or assembles a source file.
func loadProgram(path string, source bool, verbose bool) (prog *asm.Program, err error) {
	if source {
		var inf *os.File
		inf, err = os.Open(path)
		if err != nil {
			err = &asm.ErrFile{Path: path, Err: err}
			return
		}
		defer inf.Close()

		prog, err = assembler(verbose).Parse(inf)
		if err != nil {
			err = fmt.Errorf("%v: %w", path, err)
		}
		return
	}

	words, err := asm.ReadImageFile(path)
	if err != nil {
		return
	}

	prog = asm.ImageProgram(words)
	return
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "gr16",
		Short:         "gr16 assembler, disassembler and emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// assemble command
	var asmOutput string
	var asmVerbose bool

	assembleCmd := &cobra.Command{
		Use:   "assemble <input.asm>",
		Short: "Assemble a source file into a program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := assembler(asmVerbose).AssembleFile(args[0], asmOutput)
			if err != nil {
				return err
			}

			fmt.Printf("Assembly complete: %s\n", asmOutput)
			return nil
		},
	}
	assembleCmd.Flags().StringVarP(&asmOutput, "output", "o", "a.bin", "Program image to write")
	assembleCmd.Flags().BoolVarP(&asmVerbose, "verbose", "v", false, "Verbose output")

	// disassemble command
	var disOutput string

	disassembleCmd := &cobra.Command{
		Use:   "disassemble <input.bin>",
		Short: "Disassemble a program image into source text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unknown, err := asm.DisassembleFile(args[0], disOutput)
			if err != nil {
				return err
			}

			if unknown > 0 {
				log.Printf("%v: %d unknown instructions", args[0], unknown)
			}
			fmt.Printf("Disassembly complete: %s\n", disOutput)
			return nil
		},
	}
	disassembleCmd.Flags().StringVarP(&disOutput, "output", "o", "a.asm", "Source file to write")

	// run command
	var source bool
	var maxSteps int
	var quiet bool
	var verbose bool

	runCmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a program image, or a source file with --asm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0], source, verbose)
			if err != nil {
				return err
			}

			emu := emulator.NewEmulator()
			emu.Verbose = verbose
			emu.Program = prog
			if !quiet {
				emu.Trace = os.Stdout
			}

			err = emu.Reset()
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = emu.Run(ctx, maxSteps)
			if err != nil {
				if !quiet {
					fmt.Print(emu.Cpu.String())
				}
				return fmt.Errorf("%v: %w", args[0], err)
			}

			fmt.Println("Program executed successfully.")
			return nil
		},
	}
	runCmd.Flags().BoolVar(&source, "asm", false, "Program is assembly source")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Maximum instructions to execute (0 = no limit)")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the per-step state dump")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(assembleCmd, disassembleCmd, runCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
