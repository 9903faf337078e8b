package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowlang/flc/chimod"
	"github.com/flowlang/flc/compilecache"
	"github.com/flowlang/flc/log"
)

func newCompileCmd() *cobra.Command {
	var fullName, shortName, out, cachePath string
	var asTBC bool
	cmd := &cobra.Command{
		Use:   "compile <file.chimod>",
		Short: "Lower a .chimod module to LLVM IR text (or -tbc binary)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			m, irModule, debug, err := loadAndCompile(cmd.Context(), path, fullName, shortName)
			if err != nil {
				return err
			}
			text := irModule.String()

			if cachePath != "" {
				raw, err := chimod.Marshal(m)
				if err != nil {
					return err
				}
				cache, err := compilecache.Open(cachePath)
				if err != nil {
					return err
				}
				defer cache.Close()
				digest := compilecache.Digest(raw)
				if err := cache.Store(digest, fullName, text); err != nil {
					return err
				}
				log.Infof("flc: cached compiled module %q under digest %s", fullName, digest)
			}

			log.Debugf("flc: lowered %d debug location(s)", len(debug.All()))

			payload := []byte(text)
			if asTBC {
				payload = encodeTBC(text)
			}
			if out == "" {
				if asTBC {
					_, err := cmd.OutOrStdout().Write(payload)
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			return os.WriteFile(out, payload, 0o644)
		},
	}
	cmd.Flags().StringVar(&fullName, "module", "", "module's fully qualified name (required)")
	cmd.Flags().StringVar(&shortName, "short", "", "module's short name (required)")
	cmd.Flags().StringVar(&out, "out", "", "write output here instead of stdout")
	cmd.Flags().StringVar(&cachePath, "cache", "", "also store the result in a compile cache at this SQLite path")
	cmd.Flags().BoolVar(&asTBC, "tbc", false, "emit the binary -tbc envelope instead of plain IR text")
	cmd.MarkFlagRequired("module")
	cmd.MarkFlagRequired("short")
	return cmd
}
