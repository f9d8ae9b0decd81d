package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/fsdither-cli/internal/dither"
	"github.com/AnyUserName/fsdither-cli/internal/encoder"
	"github.com/AnyUserName/fsdither-cli/internal/hasher"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Result describes one dithered file.
type Result struct {
	Input        string
	Output       string
	Width        int
	Height       int
	InputFormat  string
	OutputFormat string
	InputSize    int64
	OutputSize   int64
	Hash         string // xxhash64 of the written bytes
	Elapsed      time.Duration
}

// rendered is a decoded and dithered source.
type rendered struct {
	img    *image.RGBA
	format string
	size   int64
}

// DitherFile reads in, dithers it and writes the result to out in the
// format implied by out's extension. Nothing is left at out on failure.
func (p *Pipeline) DitherFile(in, out string) (*Result, error) {
	start := time.Now()

	r, err := p.render(in)
	if err != nil {
		return nil, err
	}

	enc, err := p.registry.ForPath(out)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEncode, out, err)
	}

	data, err := p.encode(enc, r.img, out)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(out, data); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEncode, out, err)
	}

	b := r.img.Bounds()
	res := &Result{
		Input:        in,
		Output:       out,
		Width:        b.Dx(),
		Height:       b.Dy(),
		InputFormat:  r.format,
		OutputFormat: enc.Format(),
		InputSize:    r.size,
		OutputSize:   int64(len(data)),
		Hash:         hasher.ContentHash(data, hasher.DefaultHexLen),
		Elapsed:      time.Since(start),
	}
	p.log.Debug("wrote", "path", out, "format", res.OutputFormat,
		"bytes", res.OutputSize, "hash", res.Hash)
	return res, nil
}

// render decodes path, applies the optional grayscale step and dithers.
func (p *Pipeline) render(path string) (rendered, error) {
	f, err := os.Open(path)
	if err != nil {
		return rendered{}, fmt.Errorf("%w %s: %w", ErrOpenInput, path, err)
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return rendered{}, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	b := img.Bounds()
	p.log.Debug("decoded", "path", path, "format", format,
		"width", b.Dx(), "height", b.Dy())

	if p.cfg.Gray {
		img = imaging.Grayscale(img)
	}

	out := dither.Image(img, p.palette)
	p.log.Debug("dithered", "path", path, "levels", len(p.palette), "gray", p.cfg.Gray)
	return rendered{img: out, format: format, size: size}, nil
}

func (p *Pipeline) encode(enc encoder.Encoder, img image.Image, out string) ([]byte, error) {
	data, err := enc.Encode(img, p.cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("%w %s as %s: %w", ErrEncode, out, enc.Format(), err)
	}
	return data, nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so a failed write never leaves a partial file at path.
func writeAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
