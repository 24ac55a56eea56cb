package diag

import "headerlint/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
		Fixes:    nil,
	}
}

func NewError(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix attaches a ready quick fix with default metadata.
func (d *Diagnostic) WithFix(title string, edits ...TextEdit) *Diagnostic {
	d.Fixes = append(d.Fixes, &Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

// WithFixSuggestion attaches a fully configured fix (materialised or lazy).
func (d *Diagnostic) WithFixSuggestion(fix *Fix) *Diagnostic {
	if fix == nil {
		return d
	}
	d.Fixes = append(d.Fixes, fix)
	return d
}
