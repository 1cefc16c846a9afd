package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qs/internal/instcache"
)

var (
	resolveRecord bool
	resolveFunc   bool
)

func init() {
	resolveCmd.Flags().BoolVar(&resolveRecord, "record", false, "record resolved instances in the manifest")
	resolveCmd.Flags().BoolVar(&resolveFunc, "func", false, "read each argument as a member function, e.g. List<int>.Add")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve EXPR...",
	Short: "Resolve type expressions such as List<List<int>>",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHost(cmd)
		if err != nil {
			return err
		}
		defer h.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		arrow := color.New(color.FgCyan).Sprint("=>")
		for _, text := range args {
			tv, err := h.readType(text)
			if err != nil {
				return err
			}
			if resolveFunc {
				f, err := h.funcValue(ctx, tv)
				if err != nil {
					return fmt.Errorf("%s: %w", text, err)
				}
				inst, err := h.domain.GetFuncInst(ctx, f)
				if err != nil {
					return fmt.Errorf("%s: %w", text, err)
				}
				fmt.Fprintf(out, "%s %s %s\n", text, arrow, inst.FuncValue())
				continue
			}
			inst, err := h.domain.ResolveType(ctx, tv)
			if err != nil {
				return fmt.Errorf("%s: %w", text, err)
			}
			fmt.Fprintf(out, "%s %s %s\n", text, arrow, inst.TypeValue())
		}

		if resolveRecord {
			m, err := instcache.Record(h.cfg.ManifestPath(), h.domain)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "recorded %d types, %d functions in %s\n", m.TypeCount, m.FuncCount, h.cfg.ManifestPath())
		}
		return nil
	},
}
