package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Line markers of the IRTECON text layout.
const (
	programPrefix    = " Program     :"
	configPrefix     = " Config      :"
	sampleNamePrefix = " Sample name :"

	axisStartMarker = "#START axis description"
	axisEndMarker   = "#END axis description"
	axisLinePrefix  = "  "

	curveStartPrefix = "#START Curve description "
	curveEndPrefix   = "#END Curve "
	curveEndSuffix   = "----------------" // 16 dashes
	datePrefix       = "#START Date:"
	timePrefix       = "#START Time:"
	legendPrefix     = "#START Curve Legend "
	curveDataMarker  = "#START Curve Data"
)

// maxLineLength bounds a single input line; data rows of wide curves can be long.
const maxLineLength = 16 * 1024 * 1024

// parserState is the section of the file the decoder is currently in.
type parserState int

const (
	stateBase parserState = iota
	stateAxisBlock
	stateCurveBlock
)

// String returns a human-readable representation of the parser state
func (s parserState) String() string {
	switch s {
	case stateBase:
		return "Base"
	case stateAxisBlock:
		return "AxisBlock"
	case stateCurveBlock:
		return "CurveBlock"
	default:
		return "Unknown"
	}
}

// lineRule is one entry of the dispatch table. Rules of a state are tried in
// order and the first match handles the line.
type lineRule struct {
	name  string
	match func(d *decoder, line string) bool
	apply func(d *decoder, line string) error
}

// rulesByState keeps the priority order of the line patterns. Some patterns
// overlap (a data row may start with "#START"), so order within a state matters.
var rulesByState = map[parserState][]lineRule{
	stateBase: {
		{name: "program", match: hasPrefix(programPrefix), apply: setHeader(programPrefix, func(doc *Document, v string) { doc.Program = v })},
		{name: "config", match: hasPrefix(configPrefix), apply: setHeader(configPrefix, func(doc *Document, v string) { doc.ConfigurationFile = v })},
		{name: "sample name", match: hasPrefix(sampleNamePrefix), apply: setHeader(sampleNamePrefix, func(doc *Document, v string) { doc.SampleName = v })},
		{name: "axis start", match: equals(axisStartMarker), apply: (*decoder).openAxisBlock},
		{name: "curve start", match: hasPrefix(curveStartPrefix), apply: (*decoder).openCurveBlock},
		{name: "stray closer", match: func(_ *decoder, line string) bool { return line == axisEndMarker || isCurveCloser(line) }, apply: strayCloser},
	},
	stateAxisBlock: {
		{name: "axis end", match: equals(axisEndMarker), apply: (*decoder).closeAxisBlock},
		{name: "axis line", match: hasPrefix(axisLinePrefix), apply: (*decoder).addAxis},
		{name: "stray closer", match: func(_ *decoder, line string) bool { return isCurveCloser(line) }, apply: strayCloser},
	},
	stateCurveBlock: {
		{name: "curve end", match: func(_ *decoder, line string) bool { return isCurveCloser(line) }, apply: (*decoder).closeCurveBlock},
		{name: "data row", match: func(d *decoder, _ string) bool { return d.inCurveData }, apply: (*decoder).addDataRow},
		{name: "date", match: hasPrefix(datePrefix), apply: (*decoder).setCurveTime},
		{name: "time", match: hasPrefix(timePrefix), apply: (*decoder).setCurveDuration},
		{name: "legend", match: hasPrefix(legendPrefix), apply: (*decoder).setCurveLegend},
		{name: "data start", match: equals(curveDataMarker), apply: (*decoder).startCurveData},
		{name: "stray closer", match: equals(axisEndMarker), apply: strayCloser},
	},
}

// decoder holds the state of one parse. It is not shared between parses.
type decoder struct {
	state       parserState
	inCurveData bool
	doc         *Document
	pendingRows [][]float64 // rows of the open curve, swapped into it on close
}

func newDecoder() *decoder {
	return &decoder{
		state: stateBase,
		doc:   NewDocument(),
	}
}

// ParseFile reads an IRTECON file and decodes it.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IRTECON file: %w", err)
	}
	doc, err := Parse(string(stripBOM(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes the full text of an IRTECON file.
// Any failure aborts the whole parse and is reported as a *ParseError.
func Parse(content string) (*Document, error) {
	d := newDecoder()

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if err := d.processLine(line); err != nil {
			return nil, &ParseError{Line: lineNo, Content: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo + 1, Err: err}
	}
	return d.doc, nil
}

// processLine dispatches a line to the first matching rule of the current state.
// Lines no rule matches are ignored.
func (d *decoder) processLine(line string) error {
	for _, rule := range rulesByState[d.state] {
		if rule.match(d, line) {
			return rule.apply(d, line)
		}
	}
	return nil
}

func (d *decoder) currentCurve() *Curve {
	return &d.doc.Curves[len(d.doc.Curves)-1]
}

func (d *decoder) openAxisBlock(string) error {
	d.state = stateAxisBlock
	return nil
}

func (d *decoder) closeAxisBlock(string) error {
	d.state = stateBase
	return nil
}

func (d *decoder) addAxis(line string) error {
	axis, err := ParseAxisLine(line)
	if err != nil {
		return err
	}
	d.doc.Axes = append(d.doc.Axes, axis)
	return nil
}

func (d *decoder) openCurveBlock(string) error {
	d.doc.Curves = append(d.doc.Curves, NewCurve())
	d.state = stateCurveBlock
	d.pendingRows = make([][]float64, 0)
	return nil
}

// closeCurveBlock finalizes the open curve. A curve without rows keeps its empty matrix.
func (d *decoder) closeCurveBlock(string) error {
	d.state = stateBase
	d.inCurveData = false
	if len(d.pendingRows) > 0 {
		d.currentCurve().Data = d.pendingRows
		d.pendingRows = nil
	}
	return nil
}

func (d *decoder) startCurveData(string) error {
	d.inCurveData = true
	return nil
}

func (d *decoder) addDataRow(line string) error {
	row, err := parseDataRow(line)
	if err != nil {
		return err
	}
	d.pendingRows = append(d.pendingRows, row)
	return nil
}

func (d *decoder) setCurveTime(line string) error {
	t, err := ParseTimestamp(line[len(datePrefix):])
	if err != nil {
		return err
	}
	d.currentCurve().Time = t
	return nil
}

func (d *decoder) setCurveDuration(line string) error {
	duration, err := parseDuration(line[len(timePrefix):])
	if err != nil {
		return err
	}
	d.currentCurve().Duration = duration
	return nil
}

func (d *decoder) setCurveLegend(line string) error {
	legend := line
	if i := strings.Index(line, ":"); i >= 0 {
		legend = line[i+1:]
	}
	d.currentCurve().Legend = legend
	return nil
}

func strayCloser(_ *decoder, line string) error {
	return fmt.Errorf("%w: closing marker %q without a matching opening marker", ErrStructural, line)
}

// parseDuration applies the start/duration sign rule: the first value counts
// negative and the second positive, so "3,0 1,5" gives -1.5.
// An empty remainder gives 0.
func parseDuration(rest string) (float64, error) {
	first, second, ok := splitFirstField(rest)
	if !ok {
		return 0, nil
	}
	start, err := parseDecimal(first)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedDuration, first, err)
	}
	duration := -start
	if second != "" {
		length, err := parseDecimal(second)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedDuration, second, err)
		}
		duration += length
	}
	return duration, nil
}

func parseDataRow(line string) ([]float64, error) {
	fields := strings.Fields(normalizeDecimal(line))
	row := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d %q: %v", ErrMalformedNumericRow, i+1, field, err)
		}
		row[i] = v
	}
	return row, nil
}

func isCurveCloser(line string) bool {
	return strings.HasPrefix(line, curveEndPrefix) && strings.HasSuffix(line, curveEndSuffix)
}

func hasPrefix(prefix string) func(*decoder, string) bool {
	return func(_ *decoder, line string) bool { return strings.HasPrefix(line, prefix) }
}

func equals(marker string) func(*decoder, string) bool {
	return func(_ *decoder, line string) bool { return line == marker }
}

// setHeader stores everything after the prefix, untrimmed.
func setHeader(prefix string, set func(*Document, string)) func(*decoder, string) error {
	return func(d *decoder, line string) error {
		set(d.doc, line[len(prefix):])
		return nil
	}
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}
