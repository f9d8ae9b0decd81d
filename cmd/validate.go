package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/fsdither-cli/internal/hasher"
	"github.com/AnyUserName/fsdither-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Validate a batch manifest and verify the files it references",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	out := cmd.OutOrStdout()
	errs := validateManifest(m, filepath.Dir(path))
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d images — all outputs present and hashes match\n", m.Stats.TotalAssets)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	errs = append(errs, validatePalette(m.Palette)...)

	keys := make([]string, 0, len(m.Assets))
	for k := range m.Assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	var pixels int64
	for _, key := range keys {
		a := m.Assets[key]
		pixels += int64(a.Source.Width) * int64(a.Source.Height)

		if a.Source.Width <= 0 || a.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid dimensions %dx%d",
				key, a.Source.Width, a.Source.Height))
		}
		if a.Output.Hash == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing hash", key))
		}
		if a.Output.Path == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing output path", key))
			continue
		}
		if other, dup := seenPaths[a.Output.Path]; dup {
			errs = append(errs, fmt.Sprintf("image %q: output %q already used by %q", key, a.Output.Path, other))
		}
		seenPaths[a.Output.Path] = key

		errs = append(errs, verifyOutput(key, a.Output, baseDir)...)
	}

	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalPixels != pixels {
		errs = append(errs, fmt.Sprintf("stats.total_pixels mismatch: %d != %d", m.Stats.TotalPixels, pixels))
	}

	return errs
}

// validatePalette checks the levels look like palette.Generate output:
// at least two, strictly increasing from 0 to 255.
func validatePalette(levels []int) []string {
	if len(levels) < 2 {
		return []string{fmt.Sprintf("palette has %d levels, want at least 2", len(levels))}
	}
	var errs []string
	if levels[0] != 0 || levels[len(levels)-1] != 255 {
		errs = append(errs, fmt.Sprintf("palette must span 0..255, got %d..%d", levels[0], levels[len(levels)-1]))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			errs = append(errs, fmt.Sprintf("palette not strictly increasing at index %d", i))
			break
		}
	}
	return errs
}

func verifyOutput(key string, o manifest.OutputInfo, baseDir string) []string {
	f, err := os.Open(filepath.Join(baseDir, filepath.FromSlash(o.Path)))
	if err != nil {
		return []string{fmt.Sprintf("image %q: output not found: %s", key, o.Path)}
	}
	defer f.Close()

	var errs []string
	if info, err := f.Stat(); err == nil && o.Size > 0 && info.Size() != o.Size {
		errs = append(errs, fmt.Sprintf("image %q: size mismatch: manifest=%d, disk=%d", key, o.Size, info.Size()))
	}
	if o.Hash == "" {
		return errs
	}
	sum, err := hasher.ContentHashReader(f, len(o.Hash))
	if err != nil {
		return append(errs, fmt.Sprintf("image %q: read %s: %v", key, o.Path, err))
	}
	if sum != o.Hash {
		errs = append(errs, fmt.Sprintf("image %q: hash mismatch: manifest=%s, disk=%s", key, o.Hash, sum))
	}
	return errs
}
