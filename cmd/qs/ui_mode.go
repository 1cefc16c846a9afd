package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// wantProgressView reads --ui and reports whether warm-up progress should be
// rendered interactively. auto means stdout is a terminal.
func wantProgressView(cmd *cobra.Command) (bool, error) {
	v, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(v)
	if err != nil {
		return false, err
	}
	if mode == uiModeAuto {
		return isTerminal(os.Stdout), nil
	}
	return mode == uiModeOn, nil
}
