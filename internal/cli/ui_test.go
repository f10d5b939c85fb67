package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintMapStats(t *testing.T) {
	tests := []struct {
		name    string
		regions int
		noData  int
		classes int
		cached  bool
		want    []string
		absent  []string
	}{
		{"fresh", 42, 3, 7, false, []string{"42 regions", "7 classes", "3 no data", iconFresh}, []string{iconCached}},
		{"cached without no-data", 10, 0, 5, true, []string{"10 regions", "5 classes", iconCached}, []string{"no data"}},
		{"no classes", 4, 0, 0, false, []string{"4 regions"}, []string{"classes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			printMapStats(tt.regions, tt.noData, tt.classes, tt.cached)
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output %q missing %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("output %q should not contain %q", got, a)
				}
			}
		})
	}
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)
	printSuccess("Classified %s map", "choropleth")
	printFile("density.map.json")
	printKeyValue("Regions", "42")
	printNextStep("Inspect the data", "statmap describe density.csv")

	got := buf.String()
	for _, w := range []string{"Classified choropleth map", "density.map.json", "Regions", "42", "statmap describe density.csv"} {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
	if n := strings.Count(got, "\n"); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
}

func TestSwatchEmpty(t *testing.T) {
	if got := swatch(""); got != "  " {
		t.Errorf("swatch(\"\") = %q", got)
	}
	if got := swatch("#ff0000"); !strings.Contains(got, "  ") {
		t.Errorf("swatch should render a two-cell block, got %q", got)
	}
}
