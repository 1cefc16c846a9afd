package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	tests := []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "dev", "1.2"}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without color = %q", v, got)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3-dev"); got == "1.2.3-dev" {
		t.Errorf("expected escape sequences with color enabled")
	}
	if got := Colored("dev"); got != "dev" {
		t.Errorf("non-semver input must be returned as is, got %q", got)
	}
}
