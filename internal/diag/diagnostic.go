package diag

import (
	"fmt"

	"headerlint/internal/source"
)

// Note is a secondary span with context for the primary diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit is a concrete replacement of a span with new text. OldText, when
// non-empty, is a guard: the fix engine refuses the edit if the file content
// under Span no longer equals it.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind classifies a fix for UI grouping.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability describes how safe it is to apply a fix without review.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// FixBuildContext carries what a lazy fix needs to materialise its edits.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds edits on demand. Используется, когда правка дорогая и
// нужна только при реальном применении.
type FixThunk func(FixBuildContext) ([]TextEdit, error)

// Fix is one suggested correction attached to a diagnostic.
type Fix struct {
	// ID is a stable identifier; empty means the engine synthesises one.
	ID    string
	Title string
	Kind  FixKind
	// Applicability gates automatic application (see fix engine modes).
	Applicability FixApplicability
	// IsPreferred marks the fix to pick when several compete.
	IsPreferred bool
	// RequiresAll marks a fix that only makes sense together with every
	// other fix of the same diagnostic run.
	RequiresAll bool
	Edits       []TextEdit
	// Thunk, when set and Edits is empty, produces the edits lazily.
	Thunk FixThunk
}

// Resolve returns a copy of the fix with Edits populated: either the eager
// edits, or whatever the thunk builds.
func (f *Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f == nil {
		return Fix{}, fmt.Errorf("diag: nil fix")
	}
	out := *f
	if len(out.Edits) > 0 || out.Thunk == nil {
		out.Edits = append([]TextEdit(nil), out.Edits...)
		return out, nil
	}
	edits, err := out.Thunk(ctx)
	if err != nil {
		return Fix{}, fmt.Errorf("fix %q: %w", out.Title, err)
	}
	out.Edits = edits
	return out, nil
}

// MaterializeFixes resolves every fix in order; the first failure aborts.
func MaterializeFixes(ctx FixBuildContext, fixes []*Fix) ([]Fix, error) {
	if len(fixes) == 0 {
		return nil, nil
	}
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Diagnostic is the central record: one finding with its location, context
// notes and suggested fixes.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []*Fix
}
