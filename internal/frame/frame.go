// Package frame enumerates the sequentially named source frames of a batch.
package frame

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Pattern is the glob every source frame name must match.
const Pattern = "frame_*.png"

// Static errors for batch setup. Both wrap ErrSetup.
var (
	// ErrSetup is the family of errors that prevent a run from starting.
	ErrSetup = errors.New("setup error")
	// ErrSourceNotFound is returned when the source directory is missing or is not a directory.
	ErrSourceNotFound = fmt.Errorf("%w: source directory not found", ErrSetup)
	// ErrNoFrames is returned when the source directory holds no matching frames.
	ErrNoFrames = fmt.Errorf("%w: no frames found", ErrSetup)
)

// Frame identifies one source image on disk.
type Frame struct {
	// Path is the full path of the source file.
	Path string
	// Name is the base file name, reused for the output file.
	Name string
}

// Index returns the sequence index embedded in the frame name.
func (f Frame) Index() (int, bool) {
	return SequenceIndex(f.Name)
}

// List returns the frames in dir matching Pattern, sorted by name.
func List(dir string) ([]Frame, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSourceNotFound, dir, err)
	}

	var frames []Frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(Pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", e.Name(), err)
		}
		if !ok {
			continue
		}
		frames = append(frames, Frame{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
		})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Name < frames[j].Name
	})
	return frames, nil
}

// SequenceIndex extracts the numeric suffix of a frame name.
// "frame_0017.png" yields 17. Names with a non-numeric suffix report false.
func SequenceIndex(name string) (int, bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	_, digits, found := strings.Cut(base, "_")
	if !found || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
