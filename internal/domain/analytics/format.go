package analytics

import "strconv"

func formatGrowth(p float64) string {
	s := strconv.FormatFloat(p, 'f', 1, 64) + "%"
	if p >= 0 {
		return "+" + s
	}
	return s
}
