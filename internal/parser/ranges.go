package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseIndexRanges expands a list such as "1, 2, 4-6" into sorted unique numbers.
// An empty string yields an empty list.
func ParseIndexRanges(s string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.Split(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", part, err)
		}
		last, err := strconv.Atoi(strings.TrimSpace(bounds[len(bounds)-1]))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", part, err)
		}
		for i := first; i <= last; i++ {
			seen[i] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}
