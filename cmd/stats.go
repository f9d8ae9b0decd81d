package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/fsdither-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// resolveManifestPath accepts either a manifest file or the directory
// containing one.
func resolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}
	return path, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(cmd, m)
	return nil
}

func printStats(cmd *cobra.Command, m *manifest.Manifest) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(out, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(out, "  Preset:           %s\n", m.Preset)
	fmt.Fprintf(out, "  Palette:          %v\n", m.Palette)
	fmt.Fprintf(out, "  Gray:             %v\n", m.Gray)
	if m.BuildInfo != nil {
		fmt.Fprintf(out, "  Workers:          %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(out)

	s := m.Stats
	fmt.Fprintf(out, "  Total images:     %d\n", s.TotalAssets)
	fmt.Fprintf(out, "  Total pixels:     %s\n", formatPixels(s.TotalPixels))
	fmt.Fprintf(out, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(out, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Fprintf(out, "  Ratio:            %.1f%% of original\n", ratio)
	}
	fmt.Fprintln(out)

	// Per source format breakdown.
	type formatStat struct {
		count int
		in    int64
		out   int64
	}
	byFormat := map[string]formatStat{}
	var elapsed int64
	for _, a := range m.Assets {
		fs := byFormat[a.Source.Format]
		fs.count++
		fs.in += a.Source.Size
		fs.out += a.Output.Size
		byFormat[a.Source.Format] = fs
		elapsed += a.ElapsedMS
	}
	formats := make([]string, 0, len(byFormat))
	for f := range byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	fmt.Fprintln(out, "  Source formats:")
	for _, f := range formats {
		fs := byFormat[f]
		fmt.Fprintf(out, "    %-6s  %4d files  %10s -> %s\n", f, fs.count, formatBytes(fs.in), formatBytes(fs.out))
	}
	fmt.Fprintln(out)

	if elapsed > 0 && s.TotalPixels > 0 {
		fmt.Fprintf(out, "  Throughput:       %.1f MP/s (per worker)\n",
			float64(s.TotalPixels)/1e6/(float64(elapsed)/1000))
		fmt.Fprintln(out)
	}

	// Warnings.
	var warnings []string
	for key, a := range m.Assets {
		if a.Output.Path == "" {
			warnings = append(warnings, fmt.Sprintf("image %q has no output", key))
		}
		if a.Output.Hash == "" {
			warnings = append(warnings, fmt.Sprintf("image %q missing hash", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Fprintf(out, "  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(out, "    ⚠ %s\n", w)
		}
		fmt.Fprintln(out)
	}
}
