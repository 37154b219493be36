package pipeline

import (
	"strconv"
	"strings"
)

var sizeSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{suffix: "PB", multiplier: 1 << 50},
	{suffix: "TB", multiplier: 1 << 40},
	{suffix: "GB", multiplier: 1 << 30},
	{suffix: "MB", multiplier: 1 << 20},
	{suffix: "KB", multiplier: 1 << 10},
	{suffix: "B", multiplier: 1},
}

// ParseSize converts a human size string ("1GB", "700 MB", "1.5gb") into
// bytes. A bare numeric string is interpreted as a raw byte count. The bool
// result is false when the string is empty or not parseable.
func ParseSize(raw string) (int64, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return 0, false
	}
	for _, unit := range sizeSuffixes {
		if !strings.HasSuffix(value, unit.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(value, unit.suffix))
		parsed, err := strconv.ParseFloat(number, 64)
		if err != nil || parsed < 0 {
			return 0, false
		}
		return int64(parsed * unit.multiplier), true
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return int64(parsed), true
}
