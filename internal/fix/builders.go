package fix

import (
	"headerlint/internal/diag"
	"headerlint/internal/source"
)

// Option mutates a fix during construction.
type Option func(*diag.Fix)

// WithApplicability sets the applicability class.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

// WithKind sets the fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

// Preferred marks the fix as the preferred suggestion for its diagnostic.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// WithID sets a stable identifier so --id can target the fix across runs.
func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// WithRequiresAll marks the fix as valid only when applied with all others.
func WithRequiresAll() Option {
	return func(f *diag.Fix) { f.RequiresAll = true }
}

// singleEdit собирает fix из одной правки с дефолтами quick-fix/always-safe,
// остальное настраивают опции.
func singleEdit(title string, edit diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{edit},
	}
	for _, o := range opts {
		if o != nil {
			o(&f)
		}
	}
	return f
}

// InsertText creates a fix that inserts text at span (Span.Start == Span.End).
// guard, when non-empty, pins the text expected at the insertion point.
func InsertText(title string, at source.Span, text string, guard string, opts ...Option) diag.Fix {
	return singleEdit(title, diag.TextEdit{Span: at, NewText: text, OldText: guard}, opts)
}

// DeleteSpan removes the text covered by span. expect guards against the file
// having changed since the finding was produced.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return singleEdit(title, diag.TextEdit{Span: span, OldText: expect}, opts)
}

// ReplaceSpan replaces the text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return singleEdit(title, diag.TextEdit{Span: span, NewText: newText, OldText: expect}, opts)
}
