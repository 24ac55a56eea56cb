package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"headerlint/internal/header"
	"headerlint/internal/source"
)

// CheckFindingInvariants runs a minimal set of invariants on an engine
// finding:
// 1) the finding span points into the checked file and stays in bounds
// 2) the message id is set
// 3) an edit exists exactly when the spec can render one, and stays in bounds
func CheckFindingInvariants(spec *header.Spec, f *header.Finding, sf *source.File) error {
	if spec == nil || f == nil || sf == nil {
		return fmt.Errorf("nil spec, finding or file")
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflows uint32: %w", err)
	}

	// 1) span sanity; point spans are fine, findings use them for inserts
	sp := f.Span
	if sp.File != sf.ID {
		return fmt.Errorf("finding span points to different file id: got=%d want=%d", sp.File, sf.ID)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted finding span: %v", sp)
	}
	if sp.End > lenContent {
		return fmt.Errorf("finding span end beyond content: %d > %d", sp.End, lenContent)
	}

	// 2) message id
	if f.MessageID == "" {
		return fmt.Errorf("finding without message id")
	}

	// 3) edit sanity
	if f.Edit == nil {
		if spec.CanFix() {
			return fmt.Errorf("renderable spec produced no edit for %s", f.MessageID)
		}
		return nil
	}
	if !spec.CanFix() {
		return fmt.Errorf("unrenderable spec produced an edit")
	}
	e := f.Edit
	if e.End < e.Start {
		return fmt.Errorf("inverted edit range: [%d,%d)", e.Start, e.End)
	}
	if e.End > lenContent {
		return fmt.Errorf("edit end beyond content: %d > %d", e.End, lenContent)
	}
	if e.Start == e.End && e.Text == "" {
		return fmt.Errorf("empty edit: no range, no text")
	}
	return nil
}
