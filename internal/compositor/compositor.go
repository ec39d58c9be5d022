// Package compositor performs the actual RGB merge for a planned job. Two
// interchangeable backends exist: an in-process one built on x/image/tiff
// and one that shells out to ImageMagick, matching the legacy workflow.
package compositor

import (
	"context"

	"github.com/plateworks/chanmerge/internal/config"
)

// Compositor combines three greyscale channel scans into one RGB image.
// Implementations read only their three input paths and write only outPath,
// so jobs may run concurrently without coordination.
type Compositor interface {
	// Compose assigns red/green/blue inputs to their channels and writes
	// the merged image to outPath.
	Compose(ctx context.Context, redPath, greenPath, bluePath, outPath string) error

	// Name identifies the backend in logs.
	Name() string
}

// New returns the compositor selected by cfg. For the magick backend the
// binary is resolved eagerly so a missing installation fails before any
// work starts.
func New(cfg *config.Config) (Compositor, error) {
	switch cfg.Backend {
	case config.BackendMagick:
		bin, err := FindMagick(cfg.ConvertBinary)
		if err != nil {
			return nil, err
		}
		return &Magick{Bin: bin}, nil
	default:
		return &Native{}, nil
	}
}
