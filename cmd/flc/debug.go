package main

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/flowlang/flc/debug"
	"github.com/flowlang/flc/log"
)

func newDebugCmd() *cobra.Command {
	var fullName, shortName, httpAddr string
	cmd := &cobra.Command{
		Use:   "debug <file.chimod>",
		Short: "Lower a .chimod module and expose its node/IR location map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, debugTable, err := loadAndCompile(cmd.Context(), args[0], fullName, shortName)
			if err != nil {
				return err
			}
			m := debug.BuildMap(debugTable)

			if httpAddr == "" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(m.All())
			}
			log.Infof("flc: serving debug info on %s", httpAddr)
			return http.ListenAndServe(httpAddr, debug.NewServer(m))
		},
	}
	cmd.Flags().StringVar(&fullName, "module", "", "module's fully qualified name (required)")
	cmd.Flags().StringVar(&shortName, "short", "", "module's short name (required)")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve breakpoint info over HTTP at this address instead of printing once")
	cmd.MarkFlagRequired("module")
	cmd.MarkFlagRequired("short")
	return cmd
}
