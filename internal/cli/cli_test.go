package cli

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"askstream/pkg/cardstack"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(args, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return out.String(), err
}

// ids returns the ID column of a render table.
func ids(t *testing.T, table string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(table), "\n")
	if len(lines) < 2 {
		t.Fatalf("table has no rows:\n%s", table)
	}
	var out []string
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		out = append(out, fields[1])
	}
	return out
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want cardstack.Event
	}{
		{"click:2", cardstack.Click{Position: 2}},
		{"drag:60", cardstack.DragRelease{OffsetY: 60}},
		{"drag:-3,51.5", cardstack.DragRelease{OffsetX: -3, OffsetY: 51.5}},
		{"key:ArrowUp", cardstack.KeyPress{Key: "ArrowUp"}},
	}
	for _, tt := range tests {
		got, err := ParseEvent(tt.in)
		if err != nil {
			t.Errorf("ParseEvent(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEvent(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "click", "click:x", "drag:far", "drag:x,60", "swipe:1", "key:", "drag:NaN", "drag:+Inf", "drag:-inf", "drag:NaN,60"} {
		if _, err := ParseEvent(bad); !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("ParseEvent(%q) err %v, want ErrInvalidEvent", bad, err)
		}
	}
}

func TestRender_Defaults(t *testing.T) {
	out, err := run(t, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"card-1", "card-2", "card-3", "card-4"}, ids(t, out)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	for _, want := range []string{"-10.0", "0.94", "0.82", "6.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "true") != 1 {
		t.Errorf("exactly one card should be interactive:\n%s", out)
	}
}

func TestRender_Events(t *testing.T) {
	out, err := run(t, "render", "-e", "click:2", "-e", "drag:50", "-e", "drag:50.01", "-e", "key:ArrowLeft")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// click:2 → 3,1,2,4; drag:50 no-op; drag:50.01 → 1,2,4,3; ArrowLeft → 3,1,2,4
	if diff := cmp.Diff([]string{"card-3", "card-1", "card-2", "card-4"}, ids(t, out)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}

	out, err = run(t, "render", "-e", "key:ArrowDown", "-e", "key:Home")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"card-1", "card-2", "card-3", "card-4"}, ids(t, out)); diff != "" {
		t.Errorf("Home should restore (-want +got):\n%s", diff)
	}
}

func TestRender_Tunables(t *testing.T) {
	out, err := run(t, "render", "--offset", "20", "--scale", "0.1")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"-60.0", "0.70"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_YAMLData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	yaml := `stackedCards:
  - id: card-2
    title: Beta
  - id: intro
    title: Alpha
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "render", "--data", path, "-e", "key:ArrowRight")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"intro", "card-2"}, ids(t, out)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := run(t, "render", "-e", "swipe:1"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("err %v, want ErrInvalidEvent", err)
	}
	if _, err := run(t, "render", "--data", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing data file should fail")
	}
}

func TestKeys(t *testing.T) {
	out, err := run(t, "keys")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	for _, want := range []string{"ArrowDown, ArrowRight", "ArrowUp, ArrowLeft", "Home"} {
		if !strings.Contains(out, want) {
			t.Errorf("keys output missing %q:\n%s", want, out)
		}
	}
}

func TestExecute_UsesInjectedLogger(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if err := Execute([]string{"render", "-e", "key:ArrowDown"}, &out, logger); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(logs.String(), "applied event") {
		t.Errorf("injected logger received nothing:\n%s", logs.String())
	}

	logs.Reset()
	var errOut bytes.Buffer
	cmd := newRootCommand(&Options{}, logger)
	cmd.SetArgs([]string{"render", "--log-level", "error", "-e", "key:ArrowDown"})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("--log-level should replace the injected logger, got:\n%s", logs.String())
	}
}
