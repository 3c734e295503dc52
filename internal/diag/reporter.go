package diag

import "basalt/internal/source"

// Reporter is the minimal sink contract the semantic phases report into.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, args ...any)
}

// Error reports an error-severity diagnostic.
func Error(r Reporter, code Code, primary source.Span, args ...any) {
	if r != nil {
		r.Report(code, SevError, primary, args...)
	}
}

// Warning reports a warning-severity diagnostic.
func Warning(r Reporter, code Code, primary source.Span, args ...any) {
	if r != nil {
		r.Report(code, SevWarning, primary, args...)
	}
}

// Info reports an informational diagnostic.
func Info(r Reporter, code Code, primary source.Span, args ...any) {
	if r != nil {
		r.Report(code, SevInfo, primary, args...)
	}
}

// BagReporter adapts a *Bag into a Reporter.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, args ...any) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(New(sev, code, primary, args...))
}

// NopReporter swallows all diagnostics.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, ...any) {}
