package media

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Static errors for frame validation. All of them wrap ErrValidation.
var (
	// ErrValidation is the family of errors raised by a frame that cannot be normalized.
	ErrValidation = errors.New("validation error")
	// ErrInvalidOffset is returned when the crop offset is negative.
	ErrInvalidOffset = fmt.Errorf("%w: crop offset must not be negative", ErrValidation)
	// ErrFrameTooShort is returned when the image height does not exceed the crop offset.
	ErrFrameTooShort = fmt.Errorf("%w: image too short to crop", ErrValidation)
	// ErrContentTooWide is returned when the cropped width exceeds the canvas width.
	ErrContentTooWide = fmt.Errorf("%w: cropped width exceeds target width", ErrValidation)
	// ErrInvalidDimensions is returned when a target size is not positive.
	ErrInvalidDimensions = fmt.Errorf("%w: width and height must be positive", ErrValidation)
)

// Size is a width × height pair in pixels.
type Size struct {
	W int
	H int
}

// DefaultTarget is the 4:3 canvas the batch is normalized to.
var DefaultTarget = Size{W: 2800, H: 2100}

// SizeOf returns the dimensions of img.
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Crop returns a copy of img with the top offset rows removed.
// The width is unchanged and the result is anchored at (0, 0).
func Crop(img image.Image, offset int) (*image.NRGBA, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}

	b := img.Bounds()
	if b.Dy() <= offset {
		return nil, fmt.Errorf("%w: %dx%d with offset %d", ErrFrameTooShort, b.Dx(), b.Dy(), offset)
	}

	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y+offset, b.Max.X, b.Max.Y)), nil
}

// CanvasSize returns the canvas that content of the given size is placed on.
// When the content height matches the target height the target is used as is.
// Otherwise the canvas takes the content height and a width that keeps the
// target aspect ratio, rounded half to even.
func CanvasSize(content, target Size) Size {
	if content.H == target.H {
		return target
	}
	w := math.RoundToEven(float64(content.H) * float64(target.W) / float64(target.H))
	return Size{W: int(w), H: content.H}
}

// CenterOffset returns the top-left point at which content is centered on canvas.
// Both axes use integer division, so odd remainders bias towards the top-left.
func CenterOffset(canvas, content Size) image.Point {
	return image.Pt((canvas.W-content.W)/2, (canvas.H-content.H)/2)
}

// Compose centers content on a new canvas filled with bg.
// Content is never scaled: if it is wider than the canvas, ErrContentTooWide is returned.
func Compose(content image.Image, target Size, bg color.Color) (*image.NRGBA, error) {
	if target.W <= 0 || target.H <= 0 {
		return nil, fmt.Errorf("%w: target %s", ErrInvalidDimensions, target)
	}

	cs := SizeOf(content)
	size := CanvasSize(cs, target)
	if cs.W > size.W {
		return nil, fmt.Errorf("%w: %d > %d", ErrContentTooWide, cs.W, size.W)
	}

	canvas := imaging.New(size.W, size.H, bg)
	at := CenterOffset(size, cs)
	dst := image.Rectangle{Min: at, Max: at.Add(image.Pt(cs.W, cs.H))}

	// Over flattens any transparency in the screenshot onto the background.
	draw.Draw(canvas, dst, content, content.Bounds().Min, draw.Over)
	return canvas, nil
}
