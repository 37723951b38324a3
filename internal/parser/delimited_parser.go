package parser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ImportOptions controls how a plain delimited text file is turned into a Dataset.
type ImportOptions struct {
	// Separator is "comma", "semicolon", "space", "tab", "space or tab",
	// or any literal separator string.
	Separator         string   `yaml:"separator"`
	CombineSeparators bool     `yaml:"combine_separators"`
	CommentMarks      []string `yaml:"comment_marks"`
	TextStart         string   `yaml:"text_start"`
	TextEnd           string   `yaml:"text_end"`

	SkipRowsBeforeHeader int    `yaml:"skip_rows_before_header"`
	HasHeader            bool   `yaml:"has_header"`
	HasUnits             bool   `yaml:"has_units"` // units row directly after the header
	SkipRowsAfterHeader  int    `yaml:"skip_rows_after_header"`
	SkipRowsAtBottom     int    `yaml:"skip_rows_at_bottom"`
	SkipColumns          string `yaml:"skip_columns"` // e.g. "1, 2, 4-6", 1-based

	ColumnPrefix string `yaml:"column_prefix"`
	ColumnSuffix string `yaml:"column_suffix"`
	DecimalComma bool   `yaml:"decimal_comma"`
}

// DefaultImportOptions returns the settings used when nothing else is configured.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		Separator:    "comma",
		CommentMarks: []string{"#"},
		TextStart:    `"`,
		TextEnd:      `"`,
		HasHeader:    true,
	}
}

// namedSeparators maps the human names of separators to their literal form.
var namedSeparators = map[string]string{
	"comma":     ",",
	"semicolon": ";",
	"space":     " ",
	"tab":       "\t",
}

// ParseDelimited reads a plain delimited text file and parses it.
func ParseDelimited(path string, opts ImportOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open text file: %w", err)
	}
	return ParseDelimitedText(string(stripBOM(data)), opts)
}

// ParseDelimitedText parses delimited text already held in memory.
// Cells that are not numbers become NaN and are reported in Dataset.Warnings.
func ParseDelimitedText(content string, opts ImportOptions) (*Dataset, error) {
	lines, err := splitLines(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read text data: %w", err)
	}

	if opts.SkipRowsBeforeHeader > 0 {
		lines = lines[min(opts.SkipRowsBeforeHeader, len(lines)):]
	}
	lines = dropCommentsAndBlanks(lines, opts.CommentMarks)

	split, err := newFieldSplitter(opts)
	if err != nil {
		return nil, err
	}

	var header, units []string
	if opts.HasHeader && len(lines) > 0 {
		if header, err = split.line(lines[0]); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		lines = lines[1:]
		if opts.HasUnits && len(lines) > 0 {
			if units, err = split.line(lines[0]); err != nil {
				return nil, fmt.Errorf("failed to read units: %w", err)
			}
			lines = lines[1:]
		}
		lines = lines[min(opts.SkipRowsAfterHeader, len(lines)):]
	}
	if opts.SkipRowsAtBottom > 0 {
		lines = lines[:len(lines)-min(opts.SkipRowsAtBottom, len(lines))]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}

	records, err := split.all(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to read text data: %w", err)
	}

	skipList, err := ParseIndexRanges(opts.SkipColumns)
	if err != nil {
		return nil, fmt.Errorf("invalid skip columns: %w", err)
	}
	skipped := make(map[int]bool, len(skipList))
	for _, c := range skipList {
		skipped[c-1] = true
	}

	numCols := len(header)
	for _, rec := range records {
		numCols = max(numCols, len(rec))
	}
	kept := make([]int, 0, numCols)
	for c := 0; c < numCols; c++ {
		if !skipped[c] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("all %d columns are skipped", numCols)
	}

	ds := &Dataset{
		Names:    make([]string, 0, len(kept)),
		Units:    make([]string, 0),
		Rows:     make([][]float64, 0, len(records)),
		Warnings: make([]string, 0),
	}
	for _, c := range kept {
		name := strconv.Itoa(c + 1)
		if c < len(header) && header[c] != "" {
			name = header[c]
		}
		ds.Names = append(ds.Names, opts.ColumnPrefix+name+opts.ColumnSuffix)
		if units != nil {
			unit := ""
			if c < len(units) {
				unit = units[c]
			}
			ds.Units = append(ds.Units, unit)
		}
	}

	for rowIdx, rec := range records {
		row := make([]float64, len(kept))
		for i, c := range kept {
			row[i] = math.NaN()
			if c >= len(rec) {
				continue
			}
			cell := rec[c]
			if opts.DecimalComma {
				cell = normalizeDecimal(cell)
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				ds.Warnings = append(ds.Warnings, fmt.Sprintf("Row %d, column %d: value %q is not a number. Using NaN.", rowIdx+1, c+1, rec[c]))
				continue
			}
			row[i] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// fieldSplitter splits lines into trimmed, unquoted fields.
type fieldSplitter struct {
	sep       string
	combine   bool
	textStart string
	textEnd   string
}

func newFieldSplitter(opts ImportOptions) (*fieldSplitter, error) {
	sep := opts.Separator
	if literal, ok := namedSeparators[sep]; ok {
		sep = literal
	}
	if sep == "" {
		return nil, fmt.Errorf("empty separator")
	}
	return &fieldSplitter{
		sep:       sep,
		combine:   opts.CombineSeparators,
		textStart: opts.TextStart,
		textEnd:   opts.TextEnd,
	}, nil
}

// usesCSV reports whether encoding/csv can read the lines: a single-rune
// separator, no separator merging and standard double quotes.
func (s *fieldSplitter) usesCSV() bool {
	return s.sep != "space or tab" && !s.combine && utf8.RuneCountInString(s.sep) == 1 &&
		(s.textStart == "" || s.textStart == `"`) && (s.textEnd == "" || s.textEnd == `"`)
}

func (s *fieldSplitter) all(lines []string) ([][]string, error) {
	if s.usesCSV() {
		sepRune, _ := utf8.DecodeRuneInString(s.sep)
		reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		reader.Comma = sepRune
		reader.TrimLeadingSpace = !unicode.IsSpace(sepRune)
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			for i := range rec {
				rec[i] = strings.TrimSpace(rec[i])
			}
		}
		return records, nil
	}

	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		rec, err := s.line(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *fieldSplitter) line(line string) ([]string, error) {
	if s.usesCSV() {
		recs, err := s.all([]string{line})
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return []string{}, nil
		}
		return recs[0], nil
	}

	var raw []string
	if s.sep == "space or tab" {
		raw = strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })
	} else {
		raw = strings.Split(line, s.sep)
	}
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		if s.combine && f == "" {
			continue
		}
		f = strings.TrimSpace(f)
		if s.textStart != "" && s.textEnd != "" && strings.HasPrefix(f, s.textStart) && strings.HasSuffix(f, s.textEnd) && len(f) >= len(s.textStart)+len(s.textEnd) {
			f = f[len(s.textStart) : len(f)-len(s.textEnd)]
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func dropCommentsAndBlanks(lines []string, marks []string) []string {
	out := make([]string, 0, len(lines))
next:
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, mark := range marks {
			if mark != "" && strings.HasPrefix(trimmed, mark) {
				continue next
			}
		}
		out = append(out, line)
	}
	return out
}

func splitLines(content string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
