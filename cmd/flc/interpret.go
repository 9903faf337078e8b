package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/llir/llvm/asm"
	"github.com/spf13/cobra"

	"github.com/flowlang/flc/interp"
)

func newInterpretCmd() *cobra.Command {
	var funcName, argsCSV string
	var execInput, numOutputs int
	cmd := &cobra.Command{
		Use:   "interpret",
		Short: "Read IR (or a -tbc envelope) from stdin and execute one function, exiting with its returned exec path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			irText, err := decodeTBC(raw)
			if err != nil {
				return err
			}
			irModule, err := asm.ParseString("stdin", irText)
			if err != nil {
				return fmt.Errorf("parsing IR: %w", err)
			}

			dataArgs, err := parseRawInts(argsCSV)
			if err != nil {
				return err
			}

			mach := interp.New(irModule)
			execOut, outputs, err := mach.Call(funcName, execInput, dataArgs, numOutputs)
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			for i, v := range outputs {
				if i > 0 {
					fmt.Fprint(stdout, " ")
				}
				fmt.Fprintf(stdout, "%v", v)
			}
			if len(outputs) > 0 {
				fmt.Fprintln(stdout)
			}
			return exitWith(execOut)
		},
	}
	cmd.Flags().StringVar(&funcName, "func", "", "the compiled (mangled) IR function name to execute (required)")
	cmd.Flags().IntVar(&execInput, "exec-input", 0, "which exec input to enter the function on")
	cmd.Flags().IntVar(&numOutputs, "outputs", 0, "number of trailing data-output pointer parameters")
	cmd.Flags().StringVar(&argsCSV, "args", "", "comma-separated integer data-input arguments (raw IR carries no richer type schema)")
	cmd.MarkFlagRequired("func")
	return cmd
}

func parseRawInts(csv string) ([]any, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--args: %q is not an integer: %w", p, err)
		}
		out[i] = n
	}
	return out, nil
}
