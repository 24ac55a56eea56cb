// Package header is the core compliance engine: it decides whether a file's
// leading comment satisfies a header spec, and if not, how to say so and how
// to repair it.
//
// The pipeline runs in four pure stages over one file:
//
//   - ExtractRegion narrows the scanned leading tokens to the candidate
//     header region: the first block comment, or the maximal run of adjacent
//     line comments.
//   - MatchRegion compares the region against the spec and yields the first
//     Mismatch, if any. Comparison is byte-wise for literal rules and
//     unanchored RE2 for pattern rules.
//   - LocateMismatch turns a Mismatch into a precise source.Span. Offsets are
//     real file offsets, so columns land after the comment markers without
//     special casing.
//   - ComposeFix builds the single text Edit that repairs the file, when the
//     spec is fixable.
//
// Validate orchestrates the stages and additionally audits the blank lines
// required after the header. The engine reports at most one finding per file
// and is deterministic: identical bytes and spec always yield the identical
// finding.
//
// Nothing here touches the filesystem or knows about diagnostics severities;
// the driver maps Finding values onto diag records.
package header
