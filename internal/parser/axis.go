package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Token positions of the axis description layout written by the instrument.
const (
	axisNameOnlyTokens = 10 // exactly this many tokens: token 9 is the name
	axisUnitToken      = 9
)

// ParseAxisLine decodes one line of the axis description block.
func ParseAxisLine(line string) (Axis, error) {
	words := strings.Fields(line)
	if len(words) < 3 {
		return Axis{}, fmt.Errorf("%w: expected at least 3 fields, got %d", ErrMalformedAxisLine, len(words))
	}

	index, err := strconv.Atoi(words[0])
	if err != nil {
		return Axis{}, fmt.Errorf("%w: axis number %q: %v", ErrMalformedAxisLine, words[0], err)
	}
	minimum, err := parseDecimal(words[1])
	if err != nil {
		return Axis{}, fmt.Errorf("%w: minimum %q: %v", ErrMalformedAxisLine, words[1], err)
	}
	maximum, err := parseDecimal(words[2])
	if err != nil {
		return Axis{}, fmt.Errorf("%w: maximum %q: %v", ErrMalformedAxisLine, words[2], err)
	}

	axis := Axis{Index: index, Min: minimum, Max: maximum}
	switch {
	case len(words) == axisNameOnlyTokens:
		axis.Name = words[axisUnitToken]
	case len(words) > axisNameOnlyTokens:
		axis.Unit = words[axisUnitToken]
		axis.Name = strings.Join(words[axisUnitToken+1:], " ")
	}
	return axis, nil
}

// normalizeDecimal turns decimal commas into decimal points.
func normalizeDecimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// parseDecimal parses a float that may use a decimal comma.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(normalizeDecimal(s)), 64)
}
