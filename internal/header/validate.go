package header

import (
	"strconv"

	"headerlint/internal/scanner"
	"headerlint/internal/source"
	"headerlint/internal/token"
)

// Message IDs carried by findings. Formatting layers key on these instead
// of parsing message text.
const (
	MsgMissingHeader        = "missingHeader"
	MsgIncorrectCommentType = "incorrectCommentType"
	MsgHeaderTooShort       = "headerTooShort"
	MsgHeaderTooLong        = "headerTooLong"
	MsgHeaderLineTooShort   = "headerLineTooShort"
	MsgHeaderLineTooLong    = "headerLineTooLong"
	MsgHeaderLineMismatch   = "headerLineMismatchAtPos"
	MsgIncorrectHeaderLine  = "incorrectHeaderLine"
	MsgNoNewlineAfterHeader = "noNewlineAfterHeader"
)

// Finding is the engine's verdict for one file: which rule was violated at
// which span, plus the edit that repairs it (nil when the spec cannot render
// a fix).
type Finding struct {
	MessageID string
	Data      map[string]string
	Span      source.Span
	Edit      *Edit
}

// Validate checks one file against the spec and returns the first finding,
// or nil when the file complies. The engine stops at the first deviation:
// fixing it and validating again surfaces the next one, which matches how
// the fix engine iterates.
func Validate(file *source.File, spec *Spec) *Finding {
	if !scanner.HasHeader(file.Content) {
		return newFinding(&Mismatch{Kind: MismatchMissingHeader}, spec, nil, file)
	}

	region := ExtractRegion(scanner.ScanLeading(file), file.Content)
	if len(region) == 0 {
		// probe сказал «заголовок есть», а сканер не нашёл ни одного
		// комментария: это ошибка программиста, не входных данных
		panic("header: empty region after positive probe")
	}

	if m := MatchRegion(spec, region); m != nil {
		return newFinding(m, spec, region, file)
	}

	if spec.TrailingLines > 0 {
		end := HeaderEnd(spec, region)
		actual := CountTrailingBreaks(file.Content, end)
		if actual < spec.TrailingLines {
			m := &Mismatch{Kind: MismatchTrailing, Required: spec.TrailingLines, Actual: actual}
			return newFinding(m, spec, region, file)
		}
	}
	return nil
}

func newFinding(m *Mismatch, spec *Spec, region []token.Token, file *source.File) *Finding {
	return &Finding{
		MessageID: messageID(m),
		Data:      messageData(m),
		Span:      LocateMismatch(m, spec, region, file),
		Edit:      ComposeFix(m, spec, region, file),
	}
}

func messageID(m *Mismatch) string {
	switch m.Kind {
	case MismatchMissingHeader:
		return MsgMissingHeader
	case MismatchWrongKind:
		return MsgIncorrectCommentType
	case MismatchTooShort:
		return MsgHeaderTooShort
	case MismatchTooLong:
		return MsgHeaderTooLong
	case MismatchLineTooShort:
		return MsgHeaderLineTooShort
	case MismatchLineTooLong:
		return MsgHeaderLineTooLong
	case MismatchLiteral:
		return MsgHeaderLineMismatch
	case MismatchPattern:
		return MsgIncorrectHeaderLine
	case MismatchTrailing:
		return MsgNoNewlineAfterHeader
	}
	return ""
}

// messageData collects the values message templates interpolate. Lines and
// positions are 1-based here; byte offsets stay 0-based inside Mismatch.
func messageData(m *Mismatch) map[string]string {
	switch m.Kind {
	case MismatchWrongKind:
		return map[string]string{"expected": m.Expected}
	case MismatchTooShort:
		return map[string]string{"missing": m.Expected}
	case MismatchTooLong:
		return map[string]string{"extra": strconv.Itoa(m.Line + 1)}
	case MismatchLineTooShort:
		return map[string]string{"line": strconv.Itoa(m.Line + 1), "missing": m.Expected}
	case MismatchLineTooLong:
		return map[string]string{"line": strconv.Itoa(m.Line + 1)}
	case MismatchLiteral:
		return map[string]string{
			"line":     strconv.Itoa(m.Line + 1),
			"pos":      strconv.Itoa(m.Col + 1),
			"expected": m.Expected,
		}
	case MismatchPattern:
		return map[string]string{"line": strconv.Itoa(m.Line + 1), "pattern": m.Expected}
	case MismatchTrailing:
		return map[string]string{
			"required": strconv.Itoa(m.Required),
			"actual":   strconv.Itoa(m.Actual),
		}
	}
	return nil
}
