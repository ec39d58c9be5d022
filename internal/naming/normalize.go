package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)

	// Matches a stem whose trailing digit run is not already separated by a
	// dash: "01-red2" → groups "01-red" / "2". An all-digit stem (a bare
	// image id) has no non-digit anchor and stays untouched.
	reUnseparatedVariant = regexp.MustCompile(`^(.*[^-\d])(\d+)$`)
)

// Normalize rewrites a raw filename into canonical form:
//
//  1. Every run of whitespace becomes a single "-".
//  2. If the stem ends with trailing digits not already preceded by "-",
//     a "-" is inserted before the first digit of that run
//     ("red2" → "red-2"; "red-2" is unchanged).
//
// Normalize is total and idempotent, but not injective: distinct raw names
// can collapse to the same normalized name ("01 red 3.tif" and
// "01 red-3.tif" both yield "01-red-3.tif"). Collisions are resolved
// last-write-wins downstream; callers detect and warn, never repair.
func Normalize(raw string) string {
	name := reWhitespace.ReplaceAllString(strings.TrimSpace(raw), "-")

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if m := reUnseparatedVariant.FindStringSubmatch(stem); m != nil {
		stem = m[1] + "-" + m[2]
	}
	return stem + ext
}
