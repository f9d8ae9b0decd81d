package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/AnyUserName/fsdither-cli/internal/encoder"
	"github.com/AnyUserName/fsdither-cli/internal/hasher"
	"github.com/AnyUserName/fsdither-cli/internal/logging"
	"github.com/AnyUserName/fsdither-cli/internal/manifest"
)

// batchResult holds the outcome of processing a single source image.
type batchResult struct {
	key   string
	asset manifest.Asset
	err   error
}

// RunBatch dithers every image under inputDir into outputDir and returns
// the manifest describing the outputs. Files are spread over a bounded
// worker pool; each file is dithered on a single goroutine. The run fails
// only if no file succeeds.
func (p *Pipeline) RunBatch(inputDir, outputDir string) (*manifest.Manifest, error) {
	log := logging.For(p.cfg.Logger, logging.ComponentBatch)
	log.Debug("starting batch", "input", inputDir, "output", outputDir,
		"workers", p.cfg.Workers, "levels", len(p.palette), "encoders", p.registry.String())

	enc, err := p.registry.Get(p.cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	sources, err := ScanImages(inputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", inputDir)
	}
	log.Debug("found images", "count", len(sources))

	results := make([]batchResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			log.Debug("processing", "key", s.Key)
			results[idx] = p.processSource(s, outputDir, enc)
			if results[idx].err == nil {
				log.Debug("done", "key", s.Key, "output", results[idx].asset.Output.Path)
			}
		}(i, src)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Preset, p.palette.Ints(), p.cfg.Gray, enc.Format())
	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			log.Error("image failed", "key", r.key, "err", r.err)
			continue
		}
		m.Assets[r.key] = r.asset
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to process", failed)
	}
	if failed > 0 {
		log.Warn("partial batch", "failed", failed, "total", len(sources))
	}

	m.ComputeStats()
	return m, nil
}

// processSource dithers one source and writes it below outputDir.
func (p *Pipeline) processSource(src Source, outputDir string, enc encoder.Encoder) batchResult {
	result := batchResult{key: src.Key}
	start := time.Now()

	r, err := p.render(src.AbsPath)
	if err != nil {
		result.err = err
		return result
	}

	data, err := p.encode(enc, r.img, src.RelPath)
	if err != nil {
		result.err = err
		return result
	}
	hash := hasher.ContentHash(data, hasher.DefaultHexLen)

	ext := enc.Extensions()[0]
	relPath := src.Key + "." + ext
	if p.cfg.ContentAddressed {
		relPath = fmt.Sprintf("%s.%s.%s", src.Key, hash[:8], ext)
	}

	outPath := filepath.Join(outputDir, filepath.FromSlash(relPath))
	if dir := path.Dir(relPath); dir != "." {
		if err := os.MkdirAll(filepath.Join(outputDir, filepath.FromSlash(dir)), 0o755); err != nil {
			result.err = fmt.Errorf("%w %s: %w", ErrEncode, relPath, err)
			return result
		}
	}
	if err := writeAtomic(outPath, data); err != nil {
		result.err = fmt.Errorf("%w %s: %w", ErrEncode, relPath, err)
		return result
	}

	b := r.img.Bounds()
	result.asset = manifest.Asset{
		Source: manifest.SourceInfo{
			Path:   src.RelPath,
			Format: src.Format,
			Width:  b.Dx(),
			Height: b.Dy(),
			Size:   src.Size,
		},
		Output: manifest.OutputInfo{
			Path:   relPath,
			Format: enc.Format(),
			Size:   int64(len(data)),
			Hash:   hash,
		},
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	return result
}
