package preset

import (
	"testing"

	"github.com/AnyUserName/fsdither-cli/internal/palette"
)

func TestGet_Known(t *testing.T) {
	p, ok := Get("web216")
	if !ok {
		t.Fatal("web216 missing")
	}
	if p.Levels != 6 || p.Gray || p.Format != "gif" {
		t.Errorf("web216: got %+v", p)
	}
}

func TestGet_Unknown(t *testing.T) {
	if _, ok := Get("sepia"); ok {
		t.Error("unknown preset reported as found")
	}
}

func TestDefaultExists(t *testing.T) {
	if _, ok := Get(Default); !ok {
		t.Errorf("default preset %q missing", Default)
	}
}

func TestNames_SortedAndConsistent(t *testing.T) {
	names := Names()
	if len(names) != len(presets) {
		t.Fatalf("got %d names, want %d", len(names), len(presets))
	}
	for i, name := range names {
		if i > 0 && names[i-1] >= name {
			t.Errorf("names not sorted: %v", names)
		}
		p, _ := Get(name)
		if p.Name != name {
			t.Errorf("preset %q has Name %q", name, p.Name)
		}
		if p.Levels < 2 || p.Levels > palette.MaxSize {
			t.Errorf("preset %q: levels %d out of range", name, p.Levels)
		}
	}
}

func TestGIFPresetsFitPalette(t *testing.T) {
	for _, name := range Names() {
		p, _ := Get(name)
		if p.Format != "gif" {
			continue
		}
		colours := p.Levels * p.Levels * p.Levels
		if p.Gray {
			colours = p.Levels
		}
		if colours > 256 {
			t.Errorf("preset %q produces up to %d colours, GIF holds 256", name, colours)
		}
	}
}
