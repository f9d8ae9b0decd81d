package manifest

// Manifest is the top-level report of a batch run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Preset      string           `json:"preset"`
	Palette     []int            `json:"palette"` // per-channel levels
	Gray        bool             `json:"gray"`
	Format      string           `json:"format"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
}

// Asset describes one source image and its dithered output.
type Asset struct {
	Source    SourceInfo `json:"source"`
	Output    OutputInfo `json:"output"`
	ElapsedMS int64      `json:"elapsed_ms"`
}

// SourceInfo holds metadata about the input image.
type SourceInfo struct {
	Path   string `json:"path"` // relative to the input directory
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// OutputInfo describes the written file.
type OutputInfo struct {
	Path   string `json:"path"` // relative to the manifest
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // xxhash64, 16 hex chars
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalPixels      int64 `json:"total_pixels"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "fsdither.manifest.json"
