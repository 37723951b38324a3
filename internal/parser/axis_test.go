package parser

import (
	"errors"
	"testing"
)

func TestParseAxisLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Axis
	}{
		{
			name: "three fields",
			line: "  2  0  100",
			want: Axis{Index: 2, Min: 0, Max: 100},
		},
		{
			name: "nine fields",
			line: "  3 -1,5 1,5 a b c d e f",
			want: Axis{Index: 3, Min: -1.5, Max: 1.5},
		},
		{
			name: "ten fields gives a name only",
			line: "  4 0 1 a b c d e f Temperature",
			want: Axis{Index: 4, Min: 0, Max: 1, Name: "Temperature"},
		},
		{
			name: "eleven fields gives unit and name",
			line: "  2 0 1 a b c d e f K Temperature",
			want: Axis{Index: 2, Min: 0, Max: 1, Unit: "K", Name: "Temperature"},
		},
		{
			name: "multi-word name joined by single spaces",
			line: "\t2 0 1 a b c d e f mV  Lock-in   amplifier  signal ",
			want: Axis{Index: 2, Min: 0, Max: 1, Unit: "mV", Name: "Lock-in amplifier signal"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAxisLine(tc.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseAxisLine(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseAxisLine_Malformed(t *testing.T) {
	for _, line := range []string{
		"",
		"  2 0",
		"  two 0 1",
		"  2 zero 1",
		"  2 0 1,0,0",
		"  2.5 0 1",
	} {
		if _, err := ParseAxisLine(line); !errors.Is(err, ErrMalformedAxisLine) {
			t.Errorf("ParseAxisLine(%q) err = %v, want ErrMalformedAxisLine", line, err)
		}
	}
}
