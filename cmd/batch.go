package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/fsdither-cli/internal/manifest"
	"github.com/AnyUserName/fsdither-cli/internal/pipeline"
	"github.com/AnyUserName/fsdither-cli/internal/preset"
	"github.com/spf13/cobra"
)

var (
	batchOutDir           string
	batchPreset           string
	batchPalette          uint
	batchGray             bool
	batchFormat           string
	batchQuality          int
	batchWorkers          int
	batchContentAddressed bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Dither every image in a directory and write a manifest",
	Long: `Scans the input directory for images (png, jpg, jpeg, gif, bmp, tiff,
webp), dithers each one with the selected preset and writes the results
plus fsdither.manifest.json to the output directory.

Presets: ` + strings.Join(preset.Names(), ", ") + `.
--palette, --gray and --format override the preset.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./fsdither_out", "output directory")
	batchCmd.Flags().StringVar(&batchPreset, "preset", preset.Default, "dithering preset")
	batchCmd.Flags().UintVarP(&batchPalette, "palette", "p", 0, "levels per channel (overrides preset)")
	batchCmd.Flags().BoolVarP(&batchGray, "gray", "g", false, "desaturate before dithering (overrides preset)")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "output format (overrides preset)")
	batchCmd.Flags().IntVarP(&batchQuality, "quality", "q", 0, "JPEG quality 1-100 (0 = encoder default)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().BoolVar(&batchContentAddressed, "content-addressed", false, "name outputs <key>.<hash>.<ext>")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	prof, ok := preset.Get(batchPreset)
	if !ok {
		return fmt.Errorf("unknown preset %q (available: %s)", batchPreset, strings.Join(preset.Names(), ", "))
	}
	if cmd.Flags().Changed("palette") {
		if err := checkPaletteSize(batchPalette); err != nil {
			return err
		}
		prof.Levels = int(batchPalette)
	}
	if cmd.Flags().Changed("gray") {
		prof.Gray = batchGray
	}
	if batchFormat != "" {
		prof.Format = batchFormat
	}
	cmd.SilenceUsage = true

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		Levels:           prof.Levels,
		Gray:             prof.Gray,
		Quality:          batchQuality,
		Preset:           prof.Name,
		Format:           prof.Format,
		Workers:          batchWorkers,
		ContentAddressed: batchContentAddressed,
		Logger:           newLogger(),
	})

	m, err := p.RunBatch(absInput, absOutput)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(cmd, m, time.Since(start))
	return nil
}

func printBatchReport(cmd *cobra.Command, m *manifest.Manifest, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	s := m.Stats

	fmt.Fprintln(out)
	fmt.Fprintln(out, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║              fsdither batch complete             ║")
	fmt.Fprintln(out, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Preset:      %s (%d levels, gray=%v, %s)\n", m.Preset, len(m.Palette), m.Gray, m.Format)
	fmt.Fprintf(out, "  Images:      %d\n", s.TotalAssets)
	fmt.Fprintf(out, "  Pixels:      %s\n", formatPixels(s.TotalPixels))
	fmt.Fprintf(out, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(out, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	if m.BuildInfo != nil {
		fmt.Fprintf(out, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintf(out, "  Time:        %d ms\n", elapsed.Milliseconds())
	fmt.Fprintln(out)

	// Slowest images first.
	if len(m.Assets) > 0 {
		keys := make([]string, 0, len(m.Assets))
		for k := range m.Assets {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := m.Assets[keys[i]], m.Assets[keys[j]]
			if a.ElapsedMS != b.ElapsedMS {
				return a.ElapsedMS > b.ElapsedMS
			}
			return keys[i] < keys[j]
		})
		n := len(keys)
		if n > 10 {
			n = 10
		}
		fmt.Fprintf(out, "  Top %d slowest:\n", n)
		for _, k := range keys[:n] {
			a := m.Assets[k]
			fmt.Fprintf(out, "    %-40s %5dx%-5d %6d ms\n",
				truncKey(k, 40), a.Source.Width, a.Source.Height, a.ElapsedMS)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "  Manifest:    %s\n", manifest.FileName)
	fmt.Fprintln(out)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func formatPixels(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1f MP", float64(n)/1e6)
	}
	return fmt.Sprintf("%d", n)
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
