// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for the selected compositing backend.
package check

import (
	"bytes"
	"image"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/tiff"

	"github.com/plateworks/chanmerge/internal/compositor"
	"github.com/plateworks/chanmerge/internal/config"
)

// RunCheck runs the interactive --check flow: reports the native codec
// self-test and ImageMagick availability. Informational only; it reports
// every probe even after a failure. Returns false if anything required by
// the configured backend is broken.
func RunCheck(cfg *config.Config, log zerolog.Logger) bool {
	log.Info().Msg("=== System Check ===")

	nativeOK := checkNativeCodec(log)
	magickOK := checkMagick(cfg, log)

	switch cfg.Backend {
	case config.BackendMagick:
		return magickOK
	default:
		return nativeOK
	}
}

// Deps is the pre-pipeline validation: the magick backend needs an
// ImageMagick binary on PATH, the native backend has no external
// dependencies.
func Deps(cfg *config.Config) error {
	if cfg.Backend != config.BackendMagick {
		return nil
	}
	_, err := compositor.FindMagick(cfg.ConvertBinary)
	return err
}

// checkNativeCodec round-trips a tiny greyscale TIFF through the in-process
// codec.
func checkNativeCodec(log zerolog.Logger) bool {
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	if err := tiff.Encode(&buf, img, nil); err != nil {
		log.Error().Err(err).Msg("native TIFF encode failed")
		return false
	}
	if _, err := tiff.Decode(bytes.NewReader(buf.Bytes())); err != nil {
		log.Error().Err(err).Msg("native TIFF decode failed")
		return false
	}
	log.Info().Msg("native TIFF codec: ok")
	return true
}

// checkMagick reports whether ImageMagick is installed and logs its version
// line.
func checkMagick(cfg *config.Config, log zerolog.Logger) bool {
	bin, err := compositor.FindMagick(cfg.ConvertBinary)
	if err != nil {
		log.Warn().Err(err).Msg("ImageMagick not available (magick backend unusable)")
		return false
	}

	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		log.Warn().Str("bin", bin).Err(err).Msg("ImageMagick found but -version failed")
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info().Str("bin", bin).Msg(firstLine)
	return true
}
