package domain

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError reports a field value that failed its rule. Error returns
// the message alone so it can be shown to users verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidationErrors collects one failure per field from a record-level check.
type ValidationErrors map[string]*ValidationError

// Error joins the messages in field order.
func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return ""
	}
	fields := make([]string, 0, len(es))
	for f := range es {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+es[f].Message)
	}
	return strings.Join(msgs, "; ")
}

// add records err under its field when it is a *ValidationError and reports
// whether it did. Other errors are left to the caller.
func (es ValidationErrors) add(err error) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	es[ve.Field] = ve
	return true
}

// orNil returns nil for an empty set so callers can return it directly.
func (es ValidationErrors) orNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// IsValidation reports whether err is, or wraps, a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var ves ValidationErrors
	return errors.As(err, &ves)
}
