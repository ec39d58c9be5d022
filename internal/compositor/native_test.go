package compositor

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/plateworks/chanmerge/internal/config"
)

// writeGray writes a WxH 8-bit greyscale TIFF where every pixel has value v.
func writeGray(t *testing.T, path string, w, h int, v uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, tiff.Encode(f, img, nil))
}

func writeGray16(t *testing.T, path string, w, h int, v uint16) {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: v})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, tiff.Encode(f, img, nil))
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := tiff.Decode(f)
	require.NoError(t, err)
	return img
}

func TestNative_ChannelAssignment(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	r := filepath.Join(dir, "01-red.tif")
	g := filepath.Join(dir, "01-green.tif")
	b := filepath.Join(dir, "01-blue.tif")
	out := filepath.Join(dir, "01.tif")
	writeGray(t, r, 4, 4, 200)
	writeGray(t, g, 4, 4, 120)
	writeGray(t, b, 4, 4, 40)

	n := &Native{}
	require.NoError(n.Compose(context.Background(), r, g, b, out))

	merged := decode(t, out)
	require.Equal(4, merged.Bounds().Dx())
	require.Equal(4, merged.Bounds().Dy())

	cr, cg, cb, ca := merged.At(2, 2).RGBA()
	require.EqualValues(200, cr>>8, "red channel")
	require.EqualValues(120, cg>>8, "green channel")
	require.EqualValues(40, cb>>8, "blue channel")
	require.EqualValues(0xff, ca>>8, "alpha")
}

func TestNative_Gray16Preserved(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	r := filepath.Join(dir, "01-red.tif")
	g := filepath.Join(dir, "01-green.tif")
	b := filepath.Join(dir, "01-blue.tif")
	out := filepath.Join(dir, "01.tif")
	writeGray16(t, r, 2, 2, 0xbeef)
	writeGray16(t, g, 2, 2, 0x1234)
	writeGray(t, b, 2, 2, 10) // mixed depth widens to 16-bit

	n := &Native{}
	require.NoError(n.Compose(context.Background(), r, g, b, out))

	cr, cg, _, _ := decode(t, out).At(0, 0).RGBA()
	require.EqualValues(0xbeef, cr)
	require.EqualValues(0x1234, cg)
}

func TestNative_DimensionMismatch(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	r := filepath.Join(dir, "01-red.tif")
	g := filepath.Join(dir, "01-green.tif")
	b := filepath.Join(dir, "01-blue.tif")
	writeGray(t, r, 4, 4, 1)
	writeGray(t, g, 4, 4, 1)
	writeGray(t, b, 2, 4, 1)

	n := &Native{}
	err := n.Compose(context.Background(), r, g, b, filepath.Join(dir, "01.tif"))
	require.ErrorIs(err, ErrDimensionMismatch)
}

func TestNative_MissingInput(t *testing.T) {
	dir := t.TempDir()
	n := &Native{}
	err := n.Compose(context.Background(),
		filepath.Join(dir, "absent-red.tif"),
		filepath.Join(dir, "absent-green.tif"),
		filepath.Join(dir, "absent-blue.tif"),
		filepath.Join(dir, "out.tif"))
	require.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	require := require.New(t)

	cfg := config.DefaultConfig()
	comp, err := New(&cfg)
	require.NoError(err)
	require.Equal("native", comp.Name())

	cfg.Backend = config.BackendMagick
	cfg.ConvertBinary = "definitely-not-imagemagick"
	_, err = New(&cfg)
	require.Error(err, "missing magick binary must fail at construction")
}
