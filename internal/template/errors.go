package template

import "fmt"

// FormatError indicates the template file could not be read or is not a
// well-formed mapping of modality name to identifier list.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid modality template %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ConflictError indicates the same identifier string claims two canonical
// modality names. Identifiers are compared case-normalized, so "ct" under
// one modality conflicts with "CT" under another.
type ConflictError struct {
	Identifier string
	First      string
	Second     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting template identifier %q: claimed by both %q and %q",
		e.Identifier, e.First, e.Second)
}
