package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/fsdither-cli/internal/manifest"
	"github.com/AnyUserName/fsdither-cli/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI with args after restoring every flag to its default,
// since cobra keeps flag state in package globals between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.SilenceUsage = false
		reset := func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 100, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRoot_Dither(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeFixture(t, in, 20, 10)

	stdout, err := execute(t, "-i", in, "-s", out, "-g", "-p", "4")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, " ms\n") || !strings.Contains(stdout, "4 levels") {
		t.Errorf("report line: %q", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRoot_LongFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeFixture(t, in, 4, 4)

	if _, err := execute(t, "--image", in, "--save", filepath.Join(dir, "out.gif"), "--palette", "0"); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestRoot_ArgumentFailures(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeFixture(t, in, 2, 2)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing_save", []string{"-i", in}, "required flag"},
		{"missing_image", []string{"-s", filepath.Join(dir, "o.png")}, "required flag"},
		{"palette_too_large", []string{"-i", in, "-s", filepath.Join(dir, "o.png"), "-p", "300"}, "at most 256"},
		{"negative_palette", []string{"-i", in, "-s", filepath.Join(dir, "o.png"), "-p", "-1"}, "invalid argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
			if !strings.Contains(out, "Usage:") {
				t.Errorf("usage not printed for argument failure:\n%s", out)
			}
		})
	}
}

func TestRoot_IOFailure(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "-i", filepath.Join(dir, "missing.png"), "-s", filepath.Join(dir, "o.png"))
	if !errors.Is(err, pipeline.ErrOpenInput) {
		t.Fatalf("got %v, want ErrOpenInput", err)
	}
	if strings.Contains(out, "Usage:") {
		t.Errorf("usage printed for I/O failure:\n%s", out)
	}
}

func TestBatchStatsValidate(t *testing.T) {
	in := t.TempDir()
	os.MkdirAll(filepath.Join(in, "cards"), 0o755)
	writeFixture(t, filepath.Join(in, "banner.png"), 30, 12)
	writeFixture(t, filepath.Join(in, "cards", "a.png"), 8, 8)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, err := execute(t, "batch", in, "-o", outDir, "--preset", "gray4", "-w", "2")
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "batch complete") {
		t.Errorf("batch report: %q", stdout)
	}

	m, err := manifest.ReadJSON(filepath.Join(outDir, manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if m.Preset != "gray4" || !m.Gray || len(m.Palette) != 4 || len(m.Assets) != 2 {
		t.Errorf("manifest: preset=%s gray=%v palette=%v assets=%d", m.Preset, m.Gray, m.Palette, len(m.Assets))
	}

	stdout, err = execute(t, "stats", outDir)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(stdout, "Total images:     2") {
		t.Errorf("stats output: %q", stdout)
	}

	stdout, err = execute(t, "validate", outDir)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "Manifest is valid") {
		t.Errorf("validate output: %q", stdout)
	}

	// Corrupt one output and validate again.
	os.WriteFile(filepath.Join(outDir, "banner.png"), []byte("tampered"), 0o644)
	stdout, err = execute(t, "validate", filepath.Join(outDir, manifest.FileName))
	if err == nil {
		t.Fatal("validate accepted a tampered output")
	}
	if !strings.Contains(stdout, "hash mismatch") {
		t.Errorf("validate output: %q", stdout)
	}
}

func TestBatch_Overrides(t *testing.T) {
	in := t.TempDir()
	writeFixture(t, filepath.Join(in, "x.png"), 6, 6)
	outDir := t.TempDir()

	if _, err := execute(t, "batch", in, "-o", outDir, "--preset", "mono", "-p", "3", "-f", "bmp"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	m, err := manifest.ReadJSON(filepath.Join(outDir, manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Palette) != 3 || m.Format != "bmp" || !m.Gray {
		t.Errorf("overrides not applied: palette=%v format=%s gray=%v", m.Palette, m.Format, m.Gray)
	}
	if m.Assets["x"].Output.Path != "x.bmp" {
		t.Errorf("output path: %s", m.Assets["x"].Output.Path)
	}
}

func TestBatch_UnknownPreset(t *testing.T) {
	_, err := execute(t, "batch", t.TempDir(), "--preset", "sepia")
	if err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("got %v", err)
	}
}
