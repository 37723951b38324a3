package parser

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseDelimitedText_CommaWithHeaderAndUnits(t *testing.T) {
	content := "# exported by scope\n" +
		"time,\"voltage\",current\n" +
		"s,V,A\n" +
		"0,1.5,0.1\n" +
		"1,2.5,0.2\n"
	opts := DefaultImportOptions()
	opts.HasUnits = true

	ds, err := ParseDelimitedText(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"time", "voltage", "current"}; !reflect.DeepEqual(ds.Names, want) {
		t.Errorf("names = %v, want %v", ds.Names, want)
	}
	if want := []string{"s", "V", "A"}; !reflect.DeepEqual(ds.Units, want) {
		t.Errorf("units = %v, want %v", ds.Units, want)
	}
	if want := [][]float64{{0, 1.5, 0.1}, {1, 2.5, 0.2}}; !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("rows = %v, want %v", ds.Rows, want)
	}
	if len(ds.Warnings) != 0 {
		t.Errorf("warnings = %v", ds.Warnings)
	}
}

func TestParseDelimitedText_WhitespaceAndSkips(t *testing.T) {
	content := "instrument dump v2\n" +
		"x\ty\tz\tflag\n" +
		"----\n" +
		"1,0  \t 10,0\t100\t1\n" +
		"2,0\t20,0 200 0\n" +
		"3,0\t30,0\t300\t1\n" +
		"END\n"
	opts := ImportOptions{
		Separator:            "space or tab",
		SkipRowsBeforeHeader: 1,
		HasHeader:            true,
		SkipRowsAfterHeader:  1,
		SkipRowsAtBottom:     1,
		SkipColumns:          "3-4",
		ColumnPrefix:         "col ",
		DecimalComma:         true,
	}

	ds, err := ParseDelimitedText(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"col x", "col y"}; !reflect.DeepEqual(ds.Names, want) {
		t.Errorf("names = %v, want %v", ds.Names, want)
	}
	if want := [][]float64{{1, 10}, {2, 20}, {3, 30}}; !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("rows = %v, want %v", ds.Rows, want)
	}
	if len(ds.Units) != 0 {
		t.Errorf("units = %v, want none", ds.Units)
	}
}

func TestParseDelimitedText_CombinedSeparatorsAndQuotes(t *testing.T) {
	content := "'a';;'b'\n1;;2\n3;;;4\n"
	opts := ImportOptions{
		Separator:         "semicolon",
		CombineSeparators: true,
		TextStart:         "'",
		TextEnd:           "'",
		HasHeader:         true,
	}
	ds, err := ParseDelimitedText(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(ds.Names, want) {
		t.Errorf("names = %v, want %v", ds.Names, want)
	}
	if want := [][]float64{{1, 2}, {3, 4}}; !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("rows = %v, want %v", ds.Rows, want)
	}
}

func TestParseDelimitedText_NonNumericCellsBecomeNaN(t *testing.T) {
	ds, err := ParseDelimitedText("1,n/a\n2\n", ImportOptions{Separator: "comma"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(ds.Names, want) {
		t.Errorf("generated names = %v, want %v", ds.Names, want)
	}
	if !math.IsNaN(ds.Rows[0][1]) || !math.IsNaN(ds.Rows[1][1]) {
		t.Errorf("rows = %v, want NaN in the second column", ds.Rows)
	}
	if len(ds.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for the text cell", ds.Warnings)
	}
}

func TestParseDelimitedText_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    ImportOptions
	}{
		{"only comments", "# a\n# b\n", DefaultImportOptions()},
		{"header only", "a,b\n", DefaultImportOptions()},
		{"every column skipped", "1,2\n", ImportOptions{Separator: "comma", SkipColumns: "1-2"}},
		{"bad skip list", "1,2\n", ImportOptions{Separator: "comma", SkipColumns: "x"}},
		{"empty separator", "1,2\n", ImportOptions{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDelimitedText(tc.content, tc.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseDelimited_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tsv")
	if err := os.WriteFile(path, []byte("x\ty\r\n1\t2\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := ParseDelimited(path, ImportOptions{Separator: "tab", HasHeader: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := [][]float64{{1, 2}}; !reflect.DeepEqual(ds.Rows, want) {
		t.Errorf("rows = %v, want %v", ds.Rows, want)
	}
}

func TestParseIndexRanges(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"", []int{}},
		{"3", []int{3}},
		{"1, 2, 4-6", []int{1, 2, 4, 5, 6}},
		{"5-3", []int{}},
		{"4-6,5 , 1", []int{1, 4, 5, 6}},
	}
	for _, tc := range tests {
		got, err := ParseIndexRanges(tc.in)
		if err != nil {
			t.Fatalf("ParseIndexRanges(%q): unexpected error: %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseIndexRanges(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseIndexRanges("1-a"); err == nil {
		t.Error("expected error for a non-numeric bound")
	}
}
