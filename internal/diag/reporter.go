package diag

import "headerlint/internal/source"

// Reporter is the sink side of diagnostic emission. The driver hands findings
// to a Reporter without knowing where they end up.
// Реализации: BagReporter (кладёт в Bag) и NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix)
}

// BagReporter собирает диагностики в *Bag. Нулевой Bag превращает репортёр
// в no-op, поэтому проверка на nil у вызывающих не нужна.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(&Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

// NopReporter drops everything it receives.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note, []*Fix) {}

// ReportBuilder accumulates the details of one diagnostic before handing it
// to a Reporter. Every method tolerates a nil receiver so call chains do not
// need their own guards.
type ReportBuilder struct {
	reporter Reporter
	pending  Diagnostic
	emitted  bool
}

// NewReportBuilder starts a diagnostic bound to the given reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	pending := Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}
	return &ReportBuilder{reporter: r, pending: pending}
}

// ReportError opens an error-severity builder.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning opens a warning-severity builder.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// ReportInfo opens an info-severity builder.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

// WithNote appends a secondary location to the diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.pending.WithNote(sp, msg)
	return b
}

// WithFix appends a quick fix with default metadata.
func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.pending.WithFix(title, edits...)
	return b
}

// WithFixSuggestion appends a fully configured fix.
func (b *ReportBuilder) WithFixSuggestion(fix *Fix) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.pending.WithFixSuggestion(fix)
	return b
}

// Emit отправляет диагностику репортёру. Повторный Emit ничего не делает,
// так что builder можно безопасно «дожимать» в defer.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter == nil {
		return
	}
	d := b.pending
	b.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
}

// Diagnostic returns the accumulated diagnostic without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.pending
}
