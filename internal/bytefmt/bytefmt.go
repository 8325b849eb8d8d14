package bytefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var labels = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatBytes formats a byte count as a human-readable string using
// 1024-based scaling. The value is rounded to two decimal places and
// printed with minimal digits, keeping at least one decimal so that
// 1024 renders as "1.0KB" rather than "1KB". Zero renders as "0.0B".
func FormatBytes(size int64) string {
	i := 0
	f := float64(size)
	for f >= 1024 && i < len(labels)-1 {
		f /= 1024
		i++
	}

	v := math.Round(f*100) / 100
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + labels[i]
}

// ParseBytes parses a human-readable byte string (e.g. "256MB").
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)

	var multiplier int64 = 1
	switch upper := strings.ToUpper(s); {
	case strings.HasSuffix(upper, "TB"):
		multiplier = 1 << 40
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1 << 30
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1 << 20
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1 << 10
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}
