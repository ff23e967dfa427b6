// Package units parses the memory-size and duration literals that appear
// as opaque scalars in resolved configuration. The merge engine never
// interprets these values; unit parsing is strictly a consumer concern,
// which is why it lives here rather than in the merge or engine packages.
package units

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ParseMemory parses a memory-size literal such as "4GB", "512 MiB" or
// "2048" (plain bytes) into a byte count.
func ParseMemory(s string) (uint64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid memory size %q: %w", s, err)
	}
	return n, nil
}

// ParseDuration parses a duration literal such as "30m", "2h" or "1d".
// It accepts everything time.ParseDuration does, plus a day suffix and
// interior spaces ("2 h").
func ParseDuration(s string) (time.Duration, error) {
	t := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.HasSuffix(t, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(t, "d"), 64)
		if err == nil {
			return time.Duration(days * float64(24*time.Hour)), nil
		}
	}
	d, err := time.ParseDuration(t)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
