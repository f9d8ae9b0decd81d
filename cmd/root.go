package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/AnyUserName/fsdither-cli/internal/logging"
	"github.com/AnyUserName/fsdither-cli/internal/palette"
	"github.com/AnyUserName/fsdither-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var (
	ditherImage   string
	ditherSave    string
	ditherGray    bool
	ditherPalette uint
	ditherQuality int
)

var rootCmd = &cobra.Command{
	Use:   "fsdither",
	Short: "Floyd–Steinberg error-diffusion dithering for raster images",
	Long: `fsdither reduces every colour channel of an image to a small set of
evenly spaced levels and diffuses the quantization error with the
Floyd–Steinberg kernel, preserving apparent gradients.

The output format follows the --save extension (png, jpg, gif, bmp, tiff,
and webp/avif when cwebp/avifenc are installed). Alpha is discarded.`,
	Example: `  fsdither -i photo.jpg -s photo.png
  fsdither -i photo.jpg -s mono.png --gray --palette 2
  fsdither -i photo.jpg -s poster.gif -p 6`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE:    runDither,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fsdither %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	rootCmd.Flags().StringVarP(&ditherImage, "image", "i", "", "input image file")
	rootCmd.Flags().StringVarP(&ditherSave, "save", "s", "", "output image file")
	rootCmd.Flags().BoolVarP(&ditherGray, "gray", "g", false, "desaturate before dithering")
	rootCmd.Flags().UintVarP(&ditherPalette, "palette", "p", 2, "levels per channel (0 and 1 mean 2)")
	rootCmd.Flags().IntVarP(&ditherQuality, "quality", "q", 0, "JPEG quality 1-100 (0 = encoder default)")
	rootCmd.MarkFlagRequired("image")
	rootCmd.MarkFlagRequired("save")
}

// newLogger builds the stderr logger; --verbose enables debug records.
func newLogger() *slog.Logger {
	return logging.New(os.Stderr, verbose)
}

// checkPaletteSize rejects sizes that cannot give distinct 8-bit levels.
func checkPaletteSize(n uint) error {
	if n > palette.MaxSize {
		return fmt.Errorf("--palette must be at most %d, got %d", palette.MaxSize, n)
	}
	return nil
}

func runDither(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	if err := checkPaletteSize(ditherPalette); err != nil {
		return err
	}
	// Flags are valid; failures from here on are I/O, not usage.
	cmd.SilenceUsage = true

	logger := newLogger()
	logging.For(logger, logging.ComponentCLI).Debug("dither",
		"image", ditherImage, "save", ditherSave,
		"gray", ditherGray, "palette", ditherPalette)

	p := pipeline.New(pipeline.Config{
		Levels:  int(ditherPalette),
		Gray:    ditherGray,
		Quality: ditherQuality,
		Logger:  logger,
	})

	res, err := p.DitherFile(ditherImage, ditherSave)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "fsdither: %s -> %s (%dx%d, %d levels) in %d ms\n",
		res.Input, res.Output, res.Width, res.Height, len(p.Palette()),
		time.Since(start).Milliseconds())
	return nil
}
