package perrors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Errors aggregates multiple *SyntaxError values for multi-error
// reporting, mirroring the teacher's parser/errors.go Errors wrapper.
// Plain `error` values are aggregated with github.com/hashicorp/go-multierror
// instead; see AggregateTokenizerErrors below.
type Errors struct {
	errs []*SyntaxError
}

// NewErrors wraps errs, returning nil if errs is empty.
func NewErrors(errs []*SyntaxError) *Errors {
	if len(errs) == 0 {
		return nil
	}
	return &Errors{errs: errs}
}

func (e *Errors) Error() string {
	if len(e.errs) == 0 {
		return ""
	}
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.errs[0].Error(), len(e.errs)-1)
}

// All returns the wrapped errors.
func (e *Errors) All() []*SyntaxError { return e.errs }

// First returns the first error, or nil if empty.
func (e *Errors) First() *SyntaxError {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

// AggregateTokenizerErrors folds a batch of low-level tokenizer errors
// into a single error using hashicorp/go-multierror, skipping nil
// entries; it returns nil when no error remains. The reference lexer
// does not call it: its first error is sticky and is the only one it
// reports.
func AggregateTokenizerErrors(errs []error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
