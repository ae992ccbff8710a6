package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/pipeline"
	"github.com/netblend/netblend/pkg/scene"
)

// run executes the root command with args and returns what was written to
// the CLI's output writer.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(configEnv, "")

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeNetwork(t *testing.T, archJSON string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "arch.json"), []byte(archJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestParseVec3(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]float64
		wantErr bool
	}{
		{"0,0,0", [3]float64{}, false},
		{"1.5, -2, 3e-1", [3]float64{1.5, -2, 0.3}, false},
		{"1,2", [3]float64{}, true},
		{"1,2,3,4", [3]float64{}, true},
		{"a,b,c", [3]float64{}, true},
	}

	for _, tt := range tests {
		got, err := parseVec3(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseVec3(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseVec3(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseVec3(%q) code = %s", tt.in, errors.GetCode(err))
		}
	}
}

func TestLayoutFlagsApply(t *testing.T) {
	var f layoutFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--origin", "1,2,3", "--scale", "1,1,1", "--radius", "0.5", "--centered=false", "--max-neurons", "64"}); err != nil {
		t.Fatal(err)
	}

	var opts pipeline.Options
	if err := f.apply(cmd, &opts); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.Origin != [3]float64{1, 2, 3} {
		t.Errorf("Origin = %v", opts.Origin)
	}
	if opts.Scale == nil || *opts.Scale != (layout.Scale{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Scale = %+v", opts.Scale)
	}
	if opts.MaxNeurons != 64 {
		t.Errorf("MaxNeurons = %d", opts.MaxNeurons)
	}
	if opts.Radius != 0.5 || opts.IsCentered() {
		t.Errorf("Radius = %v, centered = %v", opts.Radius, opts.IsCentered())
	}
}

func TestLayoutFlagsUnsetLeavesOptions(t *testing.T) {
	var f layoutFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	_ = cmd.ParseFlags(nil)

	var opts pipeline.Options
	if err := f.apply(cmd, &opts); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.Centered != nil || opts.Radius != 0 || opts.Scale != nil || opts.MaxNeurons != 0 {
		t.Errorf("unset flags changed options: %+v", opts)
	}
}

func TestLayoutFlagsRejectBadRadius(t *testing.T) {
	var f layoutFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	_ = cmd.ParseFlags([]string{"--radius", "0"})

	var opts pipeline.Options
	if err := f.apply(cmd, &opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("apply error = %v, want INVALID_INPUT", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := writeNetwork(t, `[4, [2, 2], 3]`)

	if _, err := run(t, "layout", dir, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	s, err := scene.ReadFile(filepath.Join(dir, "scene.json"))
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	if len(s.Neurons) != 11 {
		t.Errorf("len(Neurons) = %d, want 11", len(s.Neurons))
	}
	if !s.Centered {
		t.Error("scene should be centered by default")
	}
}

func TestLayoutCommandOutputAndFlags(t *testing.T) {
	dir := writeNetwork(t, `[2, 1]`)
	out := filepath.Join(t.TempDir(), "custom.json")

	_, err := run(t, "layout", dir, "-o", out, "--origin", "0,0,2", "--scale", "1,1,1", "--centered=false")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	s, err := scene.ReadFile(out)
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	var got []scene.Vec
	for _, n := range s.Neurons {
		got = append(got, scene.Vec{X: n.X, Y: n.Y, Z: n.Z})
	}
	want := []scene.Vec{{Z: 2}, {Y: 1, Z: 2}, {X: 1, Z: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing dir", []string{"layout", filepath.Join(os.TempDir(), "netblend-does-not-exist")}, errors.ErrCodeFileNotFound},
		{"bad shape", []string{"layout", writeNetwork(t, `[[1, 2, 3]]`)}, errors.ErrCodeInvalidLayerShape},
		{"bad origin", []string{"layout", writeNetwork(t, `[1]`), "--origin", "1,2"}, errors.ErrCodeInvalidInput},
		{"zero scale", []string{"layout", writeNetwork(t, `[1]`), "--scale", "0,0,0"}, errors.ErrCodeInvalidScale},
		{"over max neurons", []string{"layout", writeNetwork(t, `[4]`), "--max-neurons", "3"}, errors.ErrCodeInvalidInput},
		{"huge layer", []string{"layout", writeNetwork(t, `[[2147483648, 2147483648]]`)}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := writeNetwork(t, `[3, [2, 2]]`)
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := run(t, "render", dir, "-f", "json,stl,dot", "-o", outDir, "--name", "net", "--mesh-cells", "6")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"net.json", "net.stl", "net.dot"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	dir := writeNetwork(t, `[1]`)
	_, err := run(t, "render", dir, "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderCommandUsesConfigFile(t *testing.T) {
	dir := writeNetwork(t, `[2]`)
	cfgPath := filepath.Join(t.TempDir(), "netblend.toml")
	cfg := "[render]\nformats = [\"dot\"]\n[cache]\ndisabled = true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "render", dir, "--config", cfgPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scene.dot")); err != nil {
		t.Errorf("config formats not applied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scene.json")); err == nil {
		t.Error("default json format should not be written when the config sets formats")
	}
}

func TestInspectCommandJSON(t *testing.T) {
	dir := writeNetwork(t, `[784, [28, 28], 10]`)

	out, err := run(t, "inspect", dir, "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var got inspectSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Architecture != "784-28x28-10" {
		t.Errorf("Architecture = %q", got.Architecture)
	}
	if got.NeuronCount != 784+784+10 || got.Extrema.WidestLayer != 784 || got.Extrema.TallestLayer != 28 {
		t.Errorf("summary = %+v", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}
}
