// Package media provides the crop and canvas operations applied to every frame.
package media

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// Geometry is the fixed transform applied to every frame of a batch.
type Geometry struct {
	// CropTop is the number of rows removed from the top of each frame.
	CropTop int
	// Target is the canvas size for frames whose cropped height matches Target.H.
	// Other frames get a canvas with the same aspect ratio.
	Target Size
}

// Processor defines the per-frame image operations used by the batch driver.
type Processor interface {
	// Open decodes the image stored at path.
	Open(ctx context.Context, path string) (image.Image, error)

	// Normalize crops img and centers the result on a canvas filled with bg.
	Normalize(ctx context.Context, img image.Image, bg color.Color) (*image.NRGBA, error)

	// Encode writes img to w as PNG.
	Encode(ctx context.Context, w io.Writer, img image.Image) error
}

// ImagingProcessor implements Processor with github.com/disintegration/imaging.
type ImagingProcessor struct {
	geometry Geometry
}

// NewImagingProcessor creates an ImagingProcessor for the given geometry.
// A zero Target falls back to DefaultTarget.
func NewImagingProcessor(g Geometry) *ImagingProcessor {
	if g.Target == (Size{}) {
		g.Target = DefaultTarget
	}
	return &ImagingProcessor{geometry: g}
}

// Geometry returns the transform applied by the processor.
func (p *ImagingProcessor) Geometry() Geometry {
	return p.geometry
}

// Open decodes the image at path.
func (p *ImagingProcessor) Open(ctx context.Context, path string) (image.Image, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Normalize crops img by the configured offset and composes it onto the canvas.
func (p *ImagingProcessor) Normalize(ctx context.Context, img image.Image, bg color.Color) (*image.NRGBA, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	cropped, err := Crop(img, p.geometry.CropTop)
	if err != nil {
		return nil, err
	}
	return Compose(cropped, p.geometry.Target, bg)
}

// Encode writes img to w as PNG.
func (p *ImagingProcessor) Encode(ctx context.Context, w io.Writer, img image.Image) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
		return nil
	}
}
