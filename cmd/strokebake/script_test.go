package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/strokereveal/internal/config"
)

const beesScript = `
drawing: garden
duration: 1
rate: 60
print_every: 30
followers:
  - name: A
    group: Bees
  - name: B
    group: Bees
  - name: C
steps:
  - at: 0.5
    op: lock
    follower: C
  - at: 0
    op: set
    follower: C
    amount: 0.3
  - at: 0
    op: ramp_group
    group: Bees
    amount: 1
    seconds: 0.5
`

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

func TestParseScriptSortsSteps(t *testing.T) {
	s, err := parseScript(strings.NewReader(beesScript))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	if len(s.Steps) != 3 {
		t.Fatalf("got %d steps", len(s.Steps))
	}
	if s.Steps[0].Op != "set" || s.Steps[1].Op != "ramp_group" || s.Steps[2].Op != "lock" {
		t.Errorf("steps not stably sorted by time: %+v", s.Steps)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		msg    string
	}{
		{"no drawing", "duration: 1\n", "drawing key"},
		{"unknown op", "drawing: d\nsteps:\n  - op: explode\n    follower: A\n", "unknown op"},
		{"group op without group", "drawing: d\nsteps:\n  - op: set_group\n", "needs a group"},
		{"follower op without follower", "drawing: d\nsteps:\n  - op: ramp\n", "needs a follower"},
		{"negative duration", "drawing: d\nduration: -1\n", "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript(strings.NewReader(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %v, want mention of %q", err, tt.msg)
			}
		})
	}
}

func TestRunScriptGroupRamp(t *testing.T) {
	s, err := parseScript(strings.NewReader(beesScript))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}

	var out bytes.Buffer
	if err := runScript(s, config.Default(), &out); err != nil {
		t.Fatalf("runScript: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 report lines, got %d:\n%s", len(lines), out.String())
	}

	first := lines[0]
	if !strings.Contains(first, "garden/C#=0.3000") || !strings.Contains(first, "garden/A#=0.0000") {
		t.Errorf("first line = %q", first)
	}

	final := lastLine(out.String())
	for _, want := range []string{"garden/A#=1.0000", "garden/B#=1.0000", "garden/C#=0.3000*"} {
		if !strings.Contains(final, want) {
			t.Errorf("final line %q missing %q", final, want)
		}
	}
}

func TestRunScriptWithDrawing(t *testing.T) {
	dir := t.TempDir()
	drawingPath := filepath.Join(dir, "line.yaml")
	doc := "name: line\nbake:\n  z_amplitude: 0\nstrokes:\n  - points:\n      - anchor: [0, 0, 0]\n      - anchor: [4, 0, 0]\n"
	if err := os.WriteFile(drawingPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := parseScript(strings.NewReader(`
drawing: line
file: ` + drawingPath + `
duration: 0.5
rate: 10
followers:
  - name: head
    stroke: 0
steps:
  - op: set
    follower: head
    amount: 0.5
`))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}

	var out bytes.Buffer
	if err := runScript(s, config.Default(), &out); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	want := "line/head# head (2.0000, 0.0000, 0.0000) tangent (1.0000, 0.0000, 0.0000)"
	if got := lastLine(out.String()); got != want {
		t.Errorf("head line = %q, want %q", got, want)
	}
}

func TestParseParams(t *testing.T) {
	ts, err := parseParams(nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if ts[i] != want[i] {
			t.Errorf("ts[%d] = %v, want %v", i, ts[i], want[i])
		}
	}

	ts, err = parseParams([]string{"0.1", "1"}, 5)
	if err != nil || len(ts) != 2 || ts[0] != 0.1 {
		t.Errorf("explicit params = %v, %v", ts, err)
	}
	if _, err := parseParams([]string{"half"}, 5); err == nil {
		t.Error("expected error for non-numeric parameter")
	}
}

func TestDefaultBakedPath(t *testing.T) {
	if got := defaultBakedPath("art/garden.yaml"); got != filepath.Join("art", "garden.baked.yaml") {
		t.Errorf("defaultBakedPath() = %q", got)
	}
}
