package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/user/irtecon_viewer_go/internal/parser"
)

// DisplayAxis is a side of the plot a file axis is shown on.
type DisplayAxis string

const (
	AxisBottom DisplayAxis = "bottom"
	AxisLeft   DisplayAxis = "left"
	AxisRight  DisplayAxis = "right"
)

// AxisPositions maps file axis indices to plot sides.
// Axes with any other index are not displayed.
var AxisPositions = map[int]DisplayAxis{
	2: AxisBottom,
	3: AxisLeft,
	4: AxisRight,
}

// AxisLabel is the caption shown on one side of a curve plot.
type AxisLabel struct {
	Name string
	Unit string
}

// Text renders the label as "Name (Unit)", or Name alone without a unit.
func (l AxisLabel) Text() string {
	if l.Unit == "" {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Unit)
}

// DisplayAxes returns the labels of the sides a document names.
// When an index appears more than once the last occurrence wins.
func DisplayAxes(doc *parser.Document) map[DisplayAxis]AxisLabel {
	labels := make(map[DisplayAxis]AxisLabel)
	if doc == nil {
		return labels
	}
	for _, a := range doc.Axes {
		if side, ok := AxisPositions[a.Index]; ok {
			labels[side] = AxisLabel{Name: a.Name, Unit: a.Unit}
		}
	}
	return labels
}

// DefaultLineColors are the pen codes cycled through by curve index.
var DefaultLineColors = []string{"r", "g", "b", "c", "m", "y", "k"}

var penColors = map[string]color.Color{
	"r": color.RGBA{R: 255, A: 255},
	"g": color.RGBA{G: 255, A: 255},
	"b": color.RGBA{B: 255, A: 255},
	"c": color.RGBA{G: 255, B: 255, A: 255},
	"m": color.RGBA{R: 255, B: 255, A: 255},
	"y": color.RGBA{R: 255, G: 255, A: 255},
	"k": color.RGBA{A: 255},
	"w": color.RGBA{R: 255, G: 255, B: 255, A: 255},
}

// ParseColor accepts a single-letter pen code (r, g, b, c, m, y, k, w) or
// a "#rrggbb" hex value.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := penColors[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
		}
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

// ParseColors converts a list of color names, see ParseColor.
func ParseColors(names []string) ([]color.Color, error) {
	colors := make([]color.Color, 0, len(names))
	for _, n := range names {
		c, err := ParseColor(n)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}
