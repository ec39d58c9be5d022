package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Parse failure reasons. Both mean the file is skipped and reported; neither
// aborts a batch.
var (
	ErrBadExtension   = errors.New("unrecognized scan extension")
	ErrNoChannelToken = errors.New("no channel token (need <id>-<channel>)")
)

// FileRecord is the structured result of parsing one normalized filename.
type FileRecord struct {
	ImageID    string  // Leading token; identifies the imaged area.
	Token      string  // Raw channel token, pre-classification.
	Variant    int     // Trailing scan number, when present.
	HasVariant bool    // False for a first scan without a number.
	Channel    Channel // Set by the caller from Classify(Token).
	Name       string  // Normalized filename.
	Path       string  // Path on disk (raw, as discovered).
}

// Parse extracts a FileRecord from a normalized filename. path is carried
// through for later compositing. allowed lists the recognized scan
// extensions (lowercase, with leading dot); when empty the TIFF defaults
// apply, so callers with a configured extension list must pass it.
//
// The stem splits on "-": first segment is the image id; if the last segment
// is purely numeric it is the variant and the middle segments joined by "-"
// form the channel token, otherwise everything after the id does.
func Parse(normalized, path string, allowed ...string) (FileRecord, error) {
	ext := filepath.Ext(normalized)
	if !extAllowed(ext, allowed) {
		return FileRecord{}, fmt.Errorf("%w: %s", ErrBadExtension, normalized)
	}

	stem := strings.TrimSuffix(normalized, ext)
	segs := strings.Split(stem, "-")
	if len(segs) < 2 {
		return FileRecord{}, fmt.Errorf("%w: %s", ErrNoChannelToken, normalized)
	}

	rec := FileRecord{
		ImageID: segs[0],
		Name:    normalized,
		Path:    path,
	}

	rest := segs[1:]
	if last := rest[len(rest)-1]; isDigits(last) {
		n, err := strconv.Atoi(last)
		if err != nil {
			return FileRecord{}, fmt.Errorf("variant %q in %s: %w", last, normalized, err)
		}
		rec.Variant = n
		rec.HasVariant = true
		rest = rest[:len(rest)-1]
	}
	rec.Token = strings.Join(rest, "-")
	return rec, nil
}

// IsTIFF reports whether ext (with leading dot) is a recognized TIFF
// extension, case-insensitive.
func IsTIFF(ext string) bool {
	switch strings.ToLower(ext) {
	case ".tif", ".tiff":
		return true
	}
	return false
}

func extAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return IsTIFF(ext)
	}
	e := strings.ToLower(ext)
	for _, a := range allowed {
		if e == a {
			return true
		}
	}
	return false
}

// isDigits reports whether s is non-empty and entirely ASCII digits.
// strconv.Atoi alone is too permissive here (it accepts a leading sign).
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
