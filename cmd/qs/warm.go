package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qs/internal/domain"
	"qs/internal/instcache"
)

var warmLimit int

func init() {
	warmCmd.Flags().IntVar(&warmLimit, "jobs", 0, "maximum concurrent resolutions (default: [cache].warm_limit, then GOMAXPROCS)")
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Resolve every instance recorded in the manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHost(cmd)
		if err != nil {
			return err
		}
		defer h.close()

		path := h.cfg.ManifestPath()
		m, found, err := instcache.Load(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintf(out, "no manifest at %s; run resolve --record first\n", path)
			return nil
		}
		typeVals, funcVals, err := m.Decode()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		limit := h.cfg.Cache.WarmLimit
		if cmd.Flags().Changed("jobs") {
			limit = warmLimit
		}
		interactive, err := wantProgressView(cmd)
		if err != nil {
			return err
		}

		var res domain.WarmResult
		if interactive {
			res, err = runWarmWithUI(cmd.Context(), h.domain, typeVals, funcVals, limit)
		} else {
			res, err = h.domain.Warm(cmd.Context(), typeVals, funcVals, limit)
		}

		fmt.Fprintf(out, "warmed %d types, %d functions", res.Types, res.Funcs)
		if res.Failed > 0 {
			fmt.Fprintf(out, ", %s", color.New(color.FgRed).Sprintf("%d failed", res.Failed))
		}
		fmt.Fprintln(out)
		if err != nil {
			for _, e := range unjoin(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
			}
			return errors.New("warm-up incomplete")
		}
		return nil
	},
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
