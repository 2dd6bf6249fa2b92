package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Codes reported while expanding.
const (
	CodeTraitDropped        = "trait_dropped"
	CodeTraitEmpty          = "trait_empty"
	CodeMacroInOpaqueType   = "macro_in_opaque_type"
	CodeAttributeMisspelled = "attribute_misspelled"
)

// Diagnostics holds all diagnostic information from a run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Item names the declaration this relates to (if any).
	Item string `json:"item,omitempty"`
	// FieldPath identifies which field this relates to (if any).
	FieldPath string `json:"field,omitempty"`
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, item, fieldPath string) {
	d.Errors = append(d.Errors, newDiagnostic(Error, code, message, item, fieldPath))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, item, fieldPath string) {
	d.Warnings = append(d.Warnings, newDiagnostic(Warning, code, message, item, fieldPath))
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, item, fieldPath string) {
	d.Infos = append(d.Infos, newDiagnostic(Info, code, message, item, fieldPath))
}

func newDiagnostic(s Severity, code, message, item, fieldPath string) Diagnostic {
	return Diagnostic{
		Severity:  s,
		Code:      code,
		Message:   message,
		Item:      item,
		FieldPath: fieldPath,
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsEmpty returns true if nothing was reported.
func (d *Diagnostics) IsEmpty() bool {
	return len(d.Errors) == 0 && len(d.Warnings) == 0 && len(d.Infos) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// WithItem returns a copy with Item set on every entry that has none.
func (d Diagnostics) WithItem(item string) Diagnostics {
	fill := func(in []Diagnostic) []Diagnostic {
		if in == nil {
			return nil
		}

		out := make([]Diagnostic, len(in))
		for i, e := range in {
			if e.Item == "" {
				e.Item = item
			}
			out[i] = e
		}

		return out
	}

	return Diagnostics{Errors: fill(d.Errors), Warnings: fill(d.Warnings), Infos: fill(d.Infos)}
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Item != "" {
		prefix = append(prefix, "["+d.Item+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
