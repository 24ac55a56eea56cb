package diag

import (
	"slices"
	"strings"

	"headerlint/internal/source"
)

// Bag accumulates the findings for one check run. The cap keeps a pathological
// file from flooding the output; Add reports whether the finding fit.
type Bag struct {
	items []*Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{items: make([]*Diagnostic, 0, max), max: uint16(max)}
}

// Add кладёт диагностику в Bag. Возвращает false, когда лимит исчерпан.
func (b *Bag) Add(d *Diagnostic) bool {
	if b.Len() < int(b.max) {
		b.items = append(b.items, d)
		return true
	}
	return false
}

func (b *Bag) Len() int    { return len(b.items) }
func (b *Bag) Cap() uint16 { return b.max }

// HasErrors reports whether the bag holds at least one error-level finding.
func (b *Bag) HasErrors() bool { return b.holdsAtLeast(SevError) }

// HasWarnings reports whether the bag holds a warning or worse.
func (b *Bag) HasWarnings() bool { return b.holdsAtLeast(SevWarning) }

func (b *Bag) holdsAtLeast(sev Severity) bool {
	for _, d := range b.items {
		if d.Severity >= sev {
			return true
		}
	}
	return false
}

// Items exposes the backing slice. Callers must treat it as read-only.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Merge absorbs another bag, growing the cap so nothing is dropped.
// Это позволяет собирать общий Bag из per-file результатов: NewBag(0) плюс
// серия Merge даёт объединение без подбора лимита заранее.
func (b *Bag) Merge(other *Bag) {
	if other == nil || len(other.items) == 0 {
		return
	}
	b.items = append(b.items, other.items...)
	if n := uint16(len(b.items)); n > b.max {
		b.max = n
	}
}

// Sort orders findings by file, span, then severity (errors first) and code,
// so repeated runs print in the same order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, compareDiagnostics)
}

func compareDiagnostics(a, b *Diagnostic) int {
	if a.Primary.File != b.Primary.File {
		if a.Primary.File < b.Primary.File {
			return -1
		}
		return 1
	}
	if a.Primary.Start != b.Primary.Start {
		if a.Primary.Start < b.Primary.Start {
			return -1
		}
		return 1
	}
	if a.Primary.End != b.Primary.End {
		if a.Primary.End < b.Primary.End {
			return -1
		}
		return 1
	}
	// при прочих равных ошибка идёт раньше предупреждения
	if a.Severity != b.Severity {
		if a.Severity > b.Severity {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Code.String(), b.Code.String())
}

type dedupKey struct {
	code Code
	span source.Span
}

// Dedup drops findings that repeat an earlier one's code and primary span.
// The cache restore path and a recheck after fixing can both hand us the same
// finding twice.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]bool, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := dedupKey{code: d.Code, span: d.Primary}
		if !seen[key] {
			seen[key] = true
			kept = append(kept, d)
		}
	}
	b.items = kept
}
