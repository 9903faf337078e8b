package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowlang/flc/interp"
)

// newRunCmd behaves like interpret but prints only the function's data
// outputs (space-separated) and turns the returned exec-output index
// into the process's exit code — "run" is meant for shelling out, not
// inspecting the exec path.
func newRunCmd() *cobra.Command {
	var fullName, shortName, funcName string
	cmd := &cobra.Command{
		Use:   "run <file.chimod> [-- arg...]",
		Short: "Lower and execute a .chimod module's function, exiting with its returned exec path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rawArgs := args[0], args[1:]
			m, irModule, _, err := loadAndCompile(cmd.Context(), path, fullName, shortName)
			if err != nil {
				return err
			}
			f, ok := m.Function(funcName)
			if !ok {
				return errFuncNotFound(funcName, m.FullName())
			}
			dataArgs, err := parseDataArgs(f.DataInputs(), rawArgs)
			if err != nil {
				return err
			}

			mach := interp.New(irModule)
			execOut, outputs, err := mach.Call(mangledName(m.FullName(), funcName), 0, dataArgs, len(f.DataOutputs()))
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
			fmt.Fprintln(stdout)
			return exitWith(execOut)
		},
	}
	cmd.Flags().StringVar(&fullName, "module", "", "module's fully qualified name (required)")
	cmd.Flags().StringVar(&shortName, "short", "", "module's short name (required)")
	cmd.Flags().StringVar(&funcName, "func", "main", "function to run")
	cmd.MarkFlagRequired("module")
	cmd.MarkFlagRequired("short")
	return cmd
}
