package parser

import (
	"errors"
	"fmt"
)

// Error kinds reported by the IRTECON decoder. Use errors.Is to test for them.
var (
	ErrMalformedTimestamp  = errors.New("malformed timestamp")
	ErrMalformedAxisLine   = errors.New("malformed axis line")
	ErrMalformedNumericRow = errors.New("malformed numeric row")
	ErrMalformedDuration   = errors.New("malformed duration")
	ErrStructural          = errors.New("structural error")
)

// ParseError locates a decoding failure in the input.
type ParseError struct {
	Line    int    // 1-based
	Content string // raw line
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v (line content: %q)", e.Line, e.Err, e.Content)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
