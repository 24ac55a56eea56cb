// Package diag holds the diagnostic model that the check and fix pipelines
// exchange: each record names a failure and its location, optionally with
// the repair attached.
//
// # Model
//
// Diagnostic is the unit of currency. It pairs a Severity (Info, Warning,
// Error) and a compact numeric Code with a short message, a primary
// source.Span, optional Notes pointing at secondary locations, and optional
// Fixes. Everything in the record is plain data; the package performs no IO
// and renders nothing. Formatting lives in internal/diagfmt, application of
// fixes in internal/fix, and orchestration in internal/driver.
//
// Codes are grouped in stable numeric ranges (header findings, IO failures,
// configuration errors) so that machine consumers can filter by family
// without parsing messages. Code.ID() is the wire form, e.g. "HDR1001".
//
// # Fixes
//
// A Fix describes an automated correction: a title for listings, a Kind and
// Applicability for triage, and the TextEdits to perform. OldText on an edit
// acts as a guard; the fix engine refuses to apply an edit whose expected
// text no longer matches the file. When building the edits is expensive, a
// producer can attach a Thunk instead and the consumer expands it through
// Resolve or MaterializeFixes.
//
// # Emission
//
// Producers emit through the Reporter interface so they stay ignorant of
// where diagnostics accumulate. ReportBuilder (usually via the ReportError /
// ReportWarning / ReportInfo shortcuts) collects notes and fixes before a
// single Emit. BagReporter is the standard sink: it feeds a Bag, which caps,
// sorts, merges, and deduplicates diagnostics for one run.
//
// Держите модель детерминированной: одинаковый вход должен давать одинаковый
// набор диагностик, иначе кэш результатов и golden-тесты теряют смысл.
package diag
