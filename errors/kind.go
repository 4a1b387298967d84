package errors

import (
	"errors"
	"fmt"
)

// Kind classifies failures raised by the object model and the schema pipeline.
type Kind int

const (
	// KindUnknown is the zero Kind; KindOf returns it for foreign errors.
	KindUnknown Kind = iota
	// KindStructure marks a node bound to a missing or mismatched element.
	KindStructure
	// KindSchemaFetch marks a failure to fetch, parse, compose or compile schema documents.
	KindSchemaFetch
	// KindValidation marks a document that does not conform to its schema.
	KindValidation
	// KindIndexConsistency marks misuse of the registry index.
	KindIndexConsistency
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindSchemaFetch:
		return "schema fetch"
	case KindValidation:
		return "validation"
	case KindIndexConsistency:
		return "index consistency"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrStructure        = errors.New("structure error")
	ErrSchemaFetch      = errors.New("schema fetch error")
	ErrValidation       = errors.New("validation error")
	ErrIndexConsistency = errors.New("index consistency error")
)

// Error is a classified failure. Op names the operation that failed and
// Subject the element, key or schema location it concerned.
type Error struct {
	Kind    Kind
	Op      string
	Subject string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op
	}
	if e.Subject != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

// Violations returns the schema violations carried by a validation error.
func (e *Error) Violations() ValidationList {
	list, _ := asValidationList(e.Err)
	return list
}

func sentinel(k Kind) error {
	switch k {
	case KindStructure:
		return ErrStructure
	case KindSchemaFetch:
		return ErrSchemaFetch
	case KindValidation:
		return ErrValidation
	case KindIndexConsistency:
		return ErrIndexConsistency
	default:
		return nil
	}
}

// New builds a classified error.
func New(kind Kind, op, subject string, err error) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

// Structuref builds a structure error with a formatted cause.
func Structuref(op, subject, format string, args ...any) *Error {
	return New(KindStructure, op, subject, fmt.Errorf(format, args...))
}

// SchemaFetch wraps a fetch, parse or compile failure for a schema location.
func SchemaFetch(op, location string, err error) *Error {
	return New(KindSchemaFetch, op, location, err)
}

// Validationf wraps schema violations found in a document.
func Validationf(subject string, list ValidationList) *Error {
	return New(KindValidation, "validate", subject, list)
}

// IndexConsistencyf builds an index consistency error with a formatted cause.
func IndexConsistencyf(op, subject, format string, args ...any) *Error {
	return New(KindIndexConsistency, op, subject, fmt.Errorf(format, args...))
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
