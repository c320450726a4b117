package background

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidRules is returned when a rules file cannot be turned into a Rule.
var ErrInvalidRules = errors.New("invalid background rules")

// Rule kinds accepted in a rules file.
const (
	KindNames     = "names"
	KindThreshold = "threshold"
)

// ruleFile is the TOML layout of a rules file:
//
//	kind = "threshold"
//	default = "#EEF2F8"
//
//	[[bucket]]
//	color = "#E8F8EC"
//	from = 17
type ruleFile struct {
	Kind    string       `toml:"kind" validate:"required,oneof=names threshold"`
	Default string       `toml:"default" validate:"omitempty,hexcolor"`
	Buckets []ruleBucket `toml:"bucket" validate:"required,min=1,dive"`
}

type ruleBucket struct {
	Color  string   `toml:"color" validate:"required,hexcolor"`
	From   *int     `toml:"from" validate:"omitempty,gte=0"`
	Frames []string `toml:"frames" validate:"omitempty,dive,required"`
}

// LoadFile reads a TOML rules file.
func LoadFile(path string) (Rule, error) {
	var rf ruleFile
	md, err := toml.DecodeFile(path, &rf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRules, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidRules, path, strings.Join(keys, ", "))
	}

	rule, err := rf.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rule, nil
}

// Parse decodes rules from TOML text.
func Parse(data string) (Rule, error) {
	var rf ruleFile
	if _, err := toml.Decode(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return rf.build()
}

func (s ruleFile) build() (Rule, error) {
	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	fallback := Default
	if s.Default != "" {
		c, err := ParseHex(s.Default)
		if err != nil {
			return nil, fmt.Errorf("%w: default: %v", ErrInvalidRules, err)
		}
		fallback = c
	}

	colors := make([]color.NRGBA, len(s.Buckets))
	for i, b := range s.Buckets {
		c, err := ParseHex(b.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: bucket %d: %v", ErrInvalidRules, i, err)
		}
		colors[i] = c
	}

	switch s.Kind {
	case KindNames:
		buckets := make([]NameBucket, len(s.Buckets))
		for i, b := range s.Buckets {
			if len(b.Frames) == 0 {
				return nil, fmt.Errorf("%w: bucket %d: frames is required for kind %q", ErrInvalidRules, i, s.Kind)
			}
			buckets[i] = NameBucket{Color: colors[i], Frames: b.Frames}
		}
		return NewNameRule(fallback, buckets...), nil
	default:
		thresholds := make([]Threshold, len(s.Buckets))
		for i, b := range s.Buckets {
			if b.From == nil {
				return nil, fmt.Errorf("%w: bucket %d: from is required for kind %q", ErrInvalidRules, i, s.Kind)
			}
			thresholds[i] = Threshold{From: *b.From, Color: colors[i]}
		}
		return NewThresholdRule(fallback, thresholds...), nil
	}
}
