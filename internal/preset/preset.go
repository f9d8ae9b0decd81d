// Package preset holds the named batch configurations.
package preset

import "sort"

// Preset selects palette size, colour mode and output format for a batch.
type Preset struct {
	Name   string
	Levels int    // per-channel palette size
	Gray   bool   // desaturate before dithering
	Format string // output encoder format
}

var presets = map[string]Preset{
	"mono": {
		Name:   "mono",
		Levels: 2,
		Gray:   true,
		Format: "png",
	},
	"gray4": {
		Name:   "gray4",
		Levels: 4,
		Gray:   true,
		Format: "png",
	},
	"gray16": {
		Name:   "gray16",
		Levels: 16,
		Gray:   true,
		Format: "png",
	},
	"rgb8": {
		Name:   "rgb8",
		Levels: 2, // 2^3 colours
		Gray:   false,
		Format: "png",
	},
	"rgb27": {
		Name:   "rgb27",
		Levels: 3,
		Gray:   false,
		Format: "png",
	},
	"web216": {
		Name:   "web216",
		Levels: 6, // 6^3 fits a GIF palette
		Gray:   false,
		Format: "gif",
	},
}

// Default is the preset used when none is named.
const Default = "rgb8"

// Get returns the preset called name.
func Get(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Names returns all preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
