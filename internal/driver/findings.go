package driver

import (
	"fmt"

	"headerlint/internal/diag"
	"headerlint/internal/fix"
	"headerlint/internal/header"
	"headerlint/internal/source"
)

// emitFinding отправляет вердикт движка репортёру одним готовым диагнозом.
func emitFinding(r diag.Reporter, file *source.File, f *header.Finding) {
	d := diagnosticFromFinding(file, f)
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
}

// diagnosticFromFinding converts the engine's verdict for a file into a
// diagnostic, attaching the repairing fix when the engine composed one.
func diagnosticFromFinding(file *source.File, f *header.Finding) *diag.Diagnostic {
	code, msg := describeFinding(f)
	d := diag.NewError(code, f.Span, msg)
	if f.Edit != nil {
		d = d.WithFixSuggestion(fixFromEdit(file, f))
	}
	return d
}

// describeFinding maps a finding onto its diagnostic code and renders the
// message template with the finding's data. Lines and columns in Data are
// already 1-based.
func describeFinding(f *header.Finding) (diag.Code, string) {
	data := func(key string) string { return f.Data[key] }
	switch f.MessageID {
	case header.MsgMissingHeader:
		return diag.HdrMissing, "missing header"
	case header.MsgIncorrectCommentType:
		return diag.HdrWrongKind, fmt.Sprintf("header should be a %s comment", data("expected"))
	case header.MsgHeaderTooShort:
		return diag.HdrTooShort, fmt.Sprintf("header too short: missing %q", data("missing"))
	case header.MsgHeaderTooLong:
		return diag.HdrTooLong, fmt.Sprintf("header too long: unexpected content at line %s", data("extra"))
	case header.MsgHeaderLineTooShort:
		return diag.HdrLineTooShort, fmt.Sprintf("header line %s too short: missing %q", data("line"), data("missing"))
	case header.MsgHeaderLineTooLong:
		return diag.HdrLineTooLong, fmt.Sprintf("header line %s too long", data("line"))
	case header.MsgHeaderLineMismatch:
		return diag.HdrLineMismatch, fmt.Sprintf("header line %s differs at column %s: expected %q", data("line"), data("pos"), data("expected"))
	case header.MsgIncorrectHeaderLine:
		return diag.HdrPattern, fmt.Sprintf("header line %s does not match pattern %s", data("line"), data("pattern"))
	case header.MsgNoNewlineAfterHeader:
		return diag.HdrTrailing, fmt.Sprintf("expected %s line break(s) after header, found %s", data("required"), data("actual"))
	}
	// движок не выдаёт других идентификаторов, это ошибка программиста
	panic("driver: unknown finding message id: " + f.MessageID)
}

// fixFromEdit wraps the engine's repairing edit into a fix. Fix IDs carry the
// file ID so that an ID stays unique across a directory run and `fix --id`
// selects exactly one occurrence.
func fixFromEdit(file *source.File, f *header.Finding) *diag.Fix {
	span := f.Edit.Span(file.ID)
	switch f.MessageID {
	case header.MsgMissingHeader:
		fx := fix.InsertText("insert missing header", span, f.Edit.Text, "",
			fix.WithID(fmt.Sprintf("insert-header-%d", file.ID)),
			fix.Preferred())
		return &fx
	case header.MsgNoNewlineAfterHeader:
		fx := fix.InsertText("insert line break(s) after header", span, f.Edit.Text, "",
			fix.WithID(fmt.Sprintf("pad-header-%d", file.ID)))
		return &fx
	default:
		// Замена существующего заголовка: guard фиксирует текущее содержимое,
		// чтобы правка не легла поверх изменившегося файла.
		guard := string(file.Content[f.Edit.Start:f.Edit.End])
		fx := fix.ReplaceSpan("rewrite header to match configuration", span, f.Edit.Text, guard,
			fix.WithID(fmt.Sprintf("rewrite-header-%d", file.ID)),
			fix.WithKind(diag.FixKindRefactorRewrite),
			fix.Preferred())
		return &fx
	}
}
