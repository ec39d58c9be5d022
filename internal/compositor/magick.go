package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrMagickNotFound means neither "magick" nor "convert" is on PATH.
var ErrMagickNotFound = errors.New("ImageMagick not found on PATH (need 'magick' or 'convert')")

// Magick shells out to ImageMagick: r g b -combine out. This is the same
// collaborator the original workflow used; channel order on the command line
// is what assigns each scan its color.
type Magick struct {
	Bin string
}

// FindMagick resolves the ImageMagick binary. An explicit binary (from
// config) is looked up as-is; otherwise IM7's "magick" is preferred with
// IM6's "convert" as fallback.
func FindMagick(explicit string) (string, error) {
	if explicit != "" {
		bin, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("convert binary %q: %w", explicit, err)
		}
		return bin, nil
	}
	for _, candidate := range []string{"magick", "convert"} {
		if bin, err := exec.LookPath(candidate); err == nil {
			return bin, nil
		}
	}
	return "", ErrMagickNotFound
}

// Name implements [Compositor].
func (m *Magick) Name() string { return "magick" }

// Compose implements [Compositor]. Stderr is captured and attached to the
// error so a failed job's report entry says why ImageMagick refused it.
func (m *Magick) Compose(ctx context.Context, redPath, greenPath, bluePath, outPath string) error {
	cmd := exec.CommandContext(ctx, m.Bin, redPath, greenPath, bluePath, "-combine", outPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w%s", m.Bin, err, tailOf(stderr.String()))
	}
	return nil
}

// tailOf trims captured stderr to its last few lines for error messages.
func tailOf(stderr string) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return ": " + strings.Join(lines, "; ")
}
