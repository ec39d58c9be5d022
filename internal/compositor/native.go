package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/tiff"
)

// ErrDimensionMismatch means the three channel scans do not share one size.
var ErrDimensionMismatch = errors.New("channel dimensions do not match")

// Native composites in-process with x/image/tiff. Inputs are read as
// greyscale (non-grey inputs are converted per channel); the output is an
// RGB TIFF, 16 bits per channel when any input is 16-bit.
type Native struct{}

// Name implements [Compositor].
func (n *Native) Name() string { return "native" }

// Compose implements [Compositor].
func (n *Native) Compose(ctx context.Context, redPath, greenPath, bluePath, outPath string) error {
	channels := make([]image.Image, 3)
	deep := false
	for i, path := range []string{redPath, greenPath, bluePath} {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := decodeTIFF(path)
		if err != nil {
			return fmt.Errorf("read channel %s: %w", path, err)
		}
		channels[i] = img
		if _, ok := img.(*image.Gray16); ok {
			deep = true
		}
	}

	bounds := channels[0].Bounds()
	for i, img := range channels[1:] {
		if img.Bounds().Dx() != bounds.Dx() || img.Bounds().Dy() != bounds.Dy() {
			return fmt.Errorf("%w: %s is %dx%d, %s is %dx%d",
				ErrDimensionMismatch,
				redPath, bounds.Dx(), bounds.Dy(),
				[]string{greenPath, bluePath}[i], img.Bounds().Dx(), img.Bounds().Dy())
		}
	}

	merged := stack(channels[0], channels[1], channels[2], deep)

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := tiff.Encode(out, merged, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return out.Close()
}

// stack builds the RGB image from three greyscale channels. Each input's
// luminance feeds exactly one output channel.
func stack(r, g, b image.Image, deep bool) image.Image {
	bounds := image.Rect(0, 0, r.Bounds().Dx(), r.Bounds().Dy())

	if deep {
		merged := image.NewRGBA64(bounds)
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				merged.SetRGBA64(x, y, color.RGBA64{
					R: gray16At(r, x, y),
					G: gray16At(g, x, y),
					B: gray16At(b, x, y),
					A: 0xffff,
				})
			}
		}
		return merged
	}

	merged := image.NewRGBA(bounds)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			merged.SetRGBA(x, y, color.RGBA{
				R: uint8(gray16At(r, x, y) >> 8),
				G: uint8(gray16At(g, x, y) >> 8),
				B: uint8(gray16At(b, x, y) >> 8),
				A: 0xff,
			})
		}
	}
	return merged
}

// gray16At returns the 16-bit luminance of the pixel at (x, y) relative to
// the image's own origin.
func gray16At(img image.Image, x, y int) uint16 {
	min := img.Bounds().Min
	c := color.Gray16Model.Convert(img.At(min.X+x, min.Y+y))
	return c.(color.Gray16).Y
}

func decodeTIFF(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tiff.Decode(f)
}
