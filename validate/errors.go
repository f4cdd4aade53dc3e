package validate

import (
	"fmt"
	"strings"
)

// Kind separates malformed input from references to records that do not exist.
type Kind string

const (
	KindType      Kind = "type"
	KindReference Kind = "reference"
)

// FieldError describes one invalid or missing field.
type FieldError struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
	Kind    Kind   `json:"kind"`
}

// Errors is every field error found in one request.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" ("+fe.Problem+")")
	}
	return "please fix the following values: " + strings.Join(parts, ", ")
}

// Has reports whether field has an error of the given kind.
func (e Errors) Has(field string, kind Kind) bool {
	for _, fe := range e {
		if fe.Field == field && fe.Kind == kind {
			return true
		}
	}
	return false
}

func (e *Errors) typeErr(field, problem string) {
	*e = append(*e, FieldError{Field: field, Problem: problem, Kind: KindType})
}

func (e *Errors) refErr(field string, id int, entity string) {
	*e = append(*e, FieldError{
		Field:   field,
		Problem: fmt.Sprintf("%s %d does not exist", entity, id),
		Kind:    KindReference,
	})
}

func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
