package dutop

import (
	"fmt"
	"math"
)

// units are the labels used by FormatSize, each 1024 times the previous one.
//
//nolint:gochecknoglobals // Lookup table
var units = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with one decimal digit and the largest unit
// that keeps the printed value below 1024, stopping at TB. A value that would
// round up to 1024.0 is shown in the next unit, so 1048575 bytes is "1.0 MB".
func FormatSize(bytes int64) string {
	value := float64(bytes)
	unit := 0

	// Compare in tenths, the printed precision.
	for math.Round(value*10) >= 1024*10 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.1f %s", value, units[unit])
}
