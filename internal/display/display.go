// Package display holds small presentation helpers: the startup banner and
// byte formatting for the batch summary.
package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner to stdout.
func PrintBanner() {
	fmt.Fprint(os.Stdout, `       _
  ___ | |__   __ _ _ __  _ __ ___   ___ _ __ __ _  ___
 / __|| '_ \ / _`+"`"+` | '_ \| '_ `+"`"+` _ \ / _ \ '__/ _`+"`"+` |/ _ \
| (__ | | | | (_| | | | | | | | | |  __/ | | (_| |  __/
 \___||_| |_|\__,_|_| |_|_| |_| |_|\___|_|  \__, |\___|
                                            |___/
`)
}

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}
