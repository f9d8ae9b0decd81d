package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, slash-separated.
	RelPath string
	// Key names the asset in the manifest and, with a new extension, the
	// output file. It is RelPath without its extension unless two sources
	// would collide, in which case it is RelPath.
	Key string
	// Format is the normalised source format (png, jpeg, gif, bmp, tiff, webp).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions maps recognised extensions to format names.
var imageExtensions = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// ScanImages walks inputDir and returns all image sources sorted by RelPath.
// Hidden directories are skipped.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != inputDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := imageExtensions[ext]
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: relPath,
			Key:     relPath[:len(relPath)-len(ext)],
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].RelPath < sources[j].RelPath })

	// photo.png and photo.jpg would both write photo.<ext>.
	count := make(map[string]int, len(sources))
	for _, s := range sources {
		count[s.Key]++
	}
	for i := range sources {
		if count[sources[i].Key] > 1 {
			sources[i].Key = sources[i].RelPath
		}
	}

	return sources, nil
}
