// Package render turns listing entries into terminal output: colored names,
// the long (-l) table and the column-packed short format.
package render

import (
	"fmt"
	"math"
)

// HumanSize formats a byte count with at most two decimals, trimming
// trailing zeros (1536 -> "1.5K", 2048 -> "2K").
func HumanSize(n int64) string {
	size := float64(n)
	suffix := "B"

	for _, next := range []string{"K", "M", "G"} {
		if size <= 1024 {
			break
		}
		size /= 1024
		suffix = next
	}

	rounded := math.Round(size*100) / 100
	switch {
	case rounded == math.Trunc(rounded):
		return fmt.Sprintf("%d%s", int64(rounded), suffix)
	case math.Mod(rounded*10, 1) == 0:
		return fmt.Sprintf("%.1f%s", rounded, suffix)
	default:
		return fmt.Sprintf("%.2f%s", rounded, suffix)
	}
}
