// Package probe inspects TIFF scan headers before planning: dimensions and
// pixel model, without decoding pixel data. Used to surface suspicious
// inputs (non-greyscale scans) early and to log per-file stats.
package probe

import (
	"fmt"
	"image/color"
	"os"

	"golang.org/x/image/tiff"
)

// ScanInfo summarizes one scan's TIFF header.
type ScanInfo struct {
	Width  int
	Height int
	Model  string // "gray", "gray16", "rgb", "rgba", "paletted" or "other".
}

// Inspect decodes the TIFF header of the file at path.
func Inspect(path string) (ScanInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScanInfo{}, err
	}
	defer f.Close()

	cfg, err := tiff.DecodeConfig(f)
	if err != nil {
		return ScanInfo{}, fmt.Errorf("decode TIFF header: %w", err)
	}

	return ScanInfo{
		Width:  cfg.Width,
		Height: cfg.Height,
		Model:  modelName(cfg.ColorModel),
	}, nil
}

// IsGray reports whether the scan is single-channel greyscale, the expected
// input for channel merging.
func (s ScanInfo) IsGray() bool {
	return s.Model == "gray" || s.Model == "gray16"
}

// Dimensions returns "WxH" for logging.
func (s ScanInfo) Dimensions() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func modelName(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.RGBAModel, color.RGBA64Model:
		return "rgb"
	case color.NRGBAModel, color.NRGBA64Model:
		return "rgba"
	}
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	return "other"
}
