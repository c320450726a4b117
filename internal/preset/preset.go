// Package preset holds the named geometry and background presets a batch can run with.
package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/maauso/framenorm/internal/background"
	"github.com/maauso/framenorm/internal/media"
)

// ErrUnknownPreset is returned by Lookup for names that are not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names.
const (
	Browser260 = "browser-260"
	Browser273 = "browser-273"

	// DefaultName is the preset used when none is configured.
	DefaultName = Browser273
)

// Preset bundles the fixed transform and background rule for one kind of batch.
type Preset struct {
	Name     string
	Geometry media.Geometry
	Rule     background.Rule
	// Fallback is the color the rule uses for unmatched frames.
	Fallback string
}

// WithRule returns a copy of p that uses rule for background selection.
func (p Preset) WithRule(rule background.Rule) Preset {
	p.Rule = rule
	p.Fallback = ""
	return p
}

var registry = map[string]func() Preset{
	// Recordings with the 260px browser bar. Backgrounds are hand-picked per frame.
	Browser260: func() Preset {
		return Preset{
			Name:     Browser260,
			Geometry: media.Geometry{CropTop: 260, Target: media.DefaultTarget},
			Rule: background.NewNameRule(background.Default,
				background.NameBucket{
					Color: background.Pink,
					Frames: []string{
						"frame_0001.png",
						"frame_0004.png",
						"frame_0005.png",
						"frame_0006.png",
						"frame_0011.png",
						"frame_0014.png",
					},
				},
				background.NameBucket{
					Color:  background.Green,
					Frames: []string{"frame_0016.png", "frame_0020.png", "frame_0024.png"},
				},
			),
			Fallback: background.Hex(background.Default),
		}
	},
	// Recordings with the 273px browser bar. Everything from frame 17 on is green.
	Browser273: func() Preset {
		return Preset{
			Name:     Browser273,
			Geometry: media.Geometry{CropTop: 273, Target: media.DefaultTarget},
			Rule: background.NewThresholdRule(background.White,
				background.Threshold{From: 17, Color: background.Green},
			),
			Fallback: background.Hex(background.White),
		}
	},
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, error) {
	build, ok := registry[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownPreset, name, Names())
	}
	return build(), nil
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
