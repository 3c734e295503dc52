package diag

import (
	"basalt/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single reported finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New constructs a diagnostic from a code and its message arguments.
func New(sev Severity, code Code, primary source.Span, args ...any) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  code.Render(args...),
		Primary:  primary,
	}
}

// WithNote returns a copy with an extra note attached.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
