package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"qs/internal/native"
	"qs/internal/ui"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the modules loaded into the domain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHost(cmd)
		if err != nil {
			return err
		}
		defer h.close()

		tbl := &ui.Table{
			Headers: []string{"NAMESPACE", "KIND", "TYPES", "FUNCS"},
			Styled:  isTerminal(os.Stdout),
		}
		for _, m := range h.domain.Modules() {
			switch m := m.(type) {
			case *native.Module:
				tbl.Rows = append(tbl.Rows, []string{
					m.Namespace(), "native",
					strconv.Itoa(len(m.IDs().Types())),
					strconv.Itoa(len(m.IDs().Funcs())),
				})
			default:
				tbl.Rows = append(tbl.Rows, []string{m.Namespace(), fmt.Sprintf("%T", m), "-", "-"})
			}
		}
		if err := tbl.Render(cmd.OutOrStdout()); err != nil {
			return err
		}
		st := h.domain.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d type instances, %d function instances cached\n", st.TypeInsts, st.FuncInsts)
		return nil
	},
}
