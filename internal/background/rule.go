// Package background selects the canvas fill color for each frame.
//
// A Rule is a total, deterministic function from a frame name to a color.
// Frames a rule does not match always resolve to the rule's default color.
package background

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/maauso/framenorm/internal/frame"
)

// Built-in palette.
var (
	// Default is the light blue-grey used when no bucket matches (#EEF2F8).
	Default = color.NRGBA{R: 238, G: 242, B: 248, A: 255}
	// Pink is the pale pink bucket color (#F8E8F0).
	Pink = color.NRGBA{R: 248, G: 232, B: 240, A: 255}
	// Green is the pale green bucket color (#E8F8EC).
	Green = color.NRGBA{R: 232, G: 248, B: 236, A: 255}
	// White is plain white (#FFFFFF).
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Rule maps a frame name to its background color.
type Rule interface {
	Color(name string) color.NRGBA
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(name string) color.NRGBA

// Color calls f(name).
func (f RuleFunc) Color(name string) color.NRGBA {
	return f(name)
}

// Static returns a rule that always yields c.
func Static(c color.NRGBA) Rule {
	return RuleFunc(func(string) color.NRGBA { return c })
}

// NameBucket assigns a color to an explicit set of frame names.
type NameBucket struct {
	Color  color.NRGBA
	Frames []string
}

// NameRule picks the first bucket listing the frame name.
type NameRule struct {
	fallback color.NRGBA
	buckets  []nameSet
}

type nameSet struct {
	color color.NRGBA
	names map[string]struct{}
}

// NewNameRule builds a NameRule. Buckets are checked in order.
func NewNameRule(fallback color.NRGBA, buckets ...NameBucket) *NameRule {
	r := &NameRule{fallback: fallback}
	for _, b := range buckets {
		set := nameSet{color: b.Color, names: make(map[string]struct{}, len(b.Frames))}
		for _, n := range b.Frames {
			set.names[n] = struct{}{}
		}
		r.buckets = append(r.buckets, set)
	}
	return r
}

// Color returns the color of the first bucket containing the base name of name.
func (r *NameRule) Color(name string) color.NRGBA {
	base := baseName(name)
	for _, b := range r.buckets {
		if _, ok := b.names[base]; ok {
			return b.color
		}
	}
	return r.fallback
}

// Threshold assigns a color to every frame whose sequence index is at least From.
type Threshold struct {
	From  int
	Color color.NRGBA
}

// ThresholdRule picks the threshold with the largest From not above the frame index.
type ThresholdRule struct {
	fallback   color.NRGBA
	thresholds []Threshold
}

// NewThresholdRule builds a ThresholdRule. Threshold order does not matter;
// when two thresholds share a From value the first one given wins.
func NewThresholdRule(fallback color.NRGBA, thresholds ...Threshold) *ThresholdRule {
	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].From < sorted[j].From
	})
	return &ThresholdRule{fallback: fallback, thresholds: sorted}
}

// Color returns the color for the sequence index embedded in name.
// Names without an index resolve to the default color.
func (r *ThresholdRule) Color(name string) color.NRGBA {
	idx, ok := frame.SequenceIndex(name)
	if !ok {
		return r.fallback
	}

	c := r.fallback
	last := math.MinInt
	for _, t := range r.thresholds {
		if t.From > idx {
			break
		}
		if t.From != last {
			c = t.Color
			last = t.From
		}
	}
	return c
}

func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ParseHex parses a "#rrggbb" (or "rrggbb") string into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected 6-char hex", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Hex formats c as "#RRGGBB".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
