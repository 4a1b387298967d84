package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a validation rule. Codes taken from XML Schema Part 1
// keep their cvc-* names; the rest are local.
type ErrorCode string

// Document level codes.
const (
	ErrNoRoot          ErrorCode = "xsd-no-root"
	ErrSchemaNotLoaded ErrorCode = "xsd-schema-not-loaded"
	ErrXMLParse        ErrorCode = "xml-parse-error"
	ErrRootNotDeclared ErrorCode = "cvc-elt.1.a"
)

// Element codes.
const (
	ErrElementNotDeclared  ErrorCode = "cvc-elt.1"
	ErrElementAbstract     ErrorCode = "cvc-elt.2"
	ErrElementNotNillable  ErrorCode = "cvc-elt.3.1"
	ErrNilElementNotEmpty  ErrorCode = "cvc-elt.3.2.1"
	ErrElementTypeAbstract ErrorCode = "cvc-elt.4.2"
	ErrXsiTypeInvalid      ErrorCode = "cvc-elt.4.3"
	ErrElementFixedValue   ErrorCode = "cvc-elt.5.2.2.2"
	ErrSimpleTypeChildren  ErrorCode = "cvc-type.3.1.2"
)

// Content and attribute codes.
const (
	ErrElementNotEmpty          ErrorCode = "cvc-complex-type.2.1"
	ErrTextInSimpleContent      ErrorCode = "cvc-complex-type.2.2"
	ErrTextInElementOnly        ErrorCode = "cvc-complex-type.2.3"
	ErrContentModelInvalid      ErrorCode = "cvc-complex-type.2.4"
	ErrRequiredElementMissing   ErrorCode = "cvc-complex-type.2.4.b"
	ErrUnexpectedElement        ErrorCode = "cvc-complex-type.2.4.d"
	ErrAttributeNotDeclared     ErrorCode = "cvc-complex-type.3.2.1"
	ErrRequiredAttributeMissing ErrorCode = "cvc-complex-type.4"
	ErrAttributeFixedValue      ErrorCode = "cvc-attribute.4"
	// ErrWildcardNotDeclared is raised when a strict wildcard admits an
	// element that no loaded schema declares.
	ErrWildcardNotDeclared ErrorCode = "cvc-wildcard.1.2"
)

// Value codes.
const (
	ErrDatatypeInvalid ErrorCode = "cvc-datatype-valid"
	ErrFacetViolation  ErrorCode = "cvc-facet-valid"
)

// Validation is one violation found in an instance document. Path is the
// slash separated element path, with @name for attributes.
//
//nolint:errname // domain term
type Validation struct {
	Code     string
	Message  string
	Path     string
	Actual   string
	Expected []string
}

// NewValidation returns a Validation for code at path.
func NewValidation(code ErrorCode, msg, path string) Validation {
	return Validation{Code: string(code), Message: msg, Path: path}
}

// NewValidationf is NewValidation with a formatted message.
func NewValidationf(code ErrorCode, path, format string, args ...any) Validation {
	return NewValidation(code, fmt.Sprintf(format, args...), path)
}

func (v *Validation) Error() string {
	if v == nil {
		return "validation <nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", v.Code, v.Message)
	if v.Path != "" {
		fmt.Fprintf(&b, " at %s", v.Path)
	}
	if len(v.Expected) > 0 {
		fmt.Fprintf(&b, " (expected: %s)", strings.Join(v.Expected, ", "))
	}
	if v.Actual != "" {
		fmt.Fprintf(&b, " (actual: %s)", v.Actual)
	}
	return b.String()
}

// ValidationList collects every violation of one validation pass, in
// document order.
type ValidationList []Validation //nolint:errname // domain term

// Error reports the first violation and how many follow it.
func (v ValidationList) Error() string {
	if len(v) == 0 {
		return "no validation errors"
	}
	if len(v) == 1 {
		return v[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
}

// AsValidations returns the violations carried by err, if any.
func AsValidations(err error) ([]Validation, bool) {
	list, ok := asValidationList(err)
	if !ok {
		return nil, false
	}
	return list, true
}

func asValidationList(err error) (ValidationList, bool) {
	if err == nil {
		return nil, false
	}
	var list ValidationList
	if errors.As(err, &list) {
		return list, true
	}
	var ptr *ValidationList
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return nil, false
}
