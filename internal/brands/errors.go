package brands

import (
	"fmt"
	"strings"
)

// InvalidPatternError is returned when a brand pattern does not compile.
type InvalidPatternError struct {
	Brand   string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q for brand %q: %v", e.Pattern, e.Brand, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// DataIntegrityError collects every problem found in the reference data.
// No matcher is built while any problem remains.
type DataIntegrityError struct {
	Problems []error
}

func (e *DataIntegrityError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, problem := range e.Problems {
		msgs[i] = problem.Error()
	}
	return fmt.Sprintf("%d data integrity problem(s): %s", len(e.Problems), strings.Join(msgs, "; "))
}

func (e *DataIntegrityError) Unwrap() []error {
	return e.Problems
}
