package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"headerlint/internal/diag"
	"headerlint/internal/source"
)

// ErrNoFixes сигнализирует, что ни один fix не был применён. Вызывающие
// обязаны проверять его через errors.Is: результат при этом заполнен.
var ErrNoFixes = errors.New("no fixes to apply")

// ApplyMode задаёт стратегию отбора fix'ов перед применением.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions управляет отбором fix'ов и записью на диск.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun выполняет все правки в памяти, но не трогает диск.
	DryRun bool
}

// AppliedFix описывает один успешно применённый fix для сводки.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix keeps the reason a fix was passed over or failed.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange считает правки, попавшие в один файл.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult is the full outcome of one Apply run.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// pendingFix is one materialized fix waiting for selection. seq фиксирует
// порядок появления и служит ключом стабильной сортировки.
type pendingFix struct {
	d   *diag.Diagnostic
	fix diag.Fix
	seq int
}

// Apply materializes the fixes carried by diagnostics and applies the subset
// opts selects. Header repairs are almost always one edit in one file, but the
// engine stays general: a fix may edit several files and still applies
// all-or-nothing.
func Apply(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{
		Applied:     []AppliedFix{},
		Skipped:     []SkippedFix{},
		FileChanges: []FileChange{},
	}
	if fs == nil {
		return res, fmt.Errorf("fix: missing FileSet")
	}

	pending, skips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics)
	res.Skipped = append(res.Skipped, skips...)
	if len(pending) == 0 {
		return res, ErrNoFixes
	}

	orderPending(pending)
	picked, skips := pick(pending, opts)
	res.Skipped = append(res.Skipped, skips...)
	if len(picked) == 0 {
		return res, ErrNoFixes
	}

	eng := newApplier(fs)
	for _, p := range picked {
		staged, edits, why := eng.stage(p)
		if why != "" {
			res.Skipped = append(res.Skipped, skipRecord(p.fix, why))
			continue
		}
		eng.commit(staged)
		res.Applied = append(res.Applied, appliedRecord(fs, p, edits))
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	changes, err := eng.flush(opts.DryRun)
	res.FileChanges = append(res.FileChanges, changes...)
	return res, err
}

// gatherCandidates materializes every fix carried by the diagnostics into a
// flat pending list. Fixes that fail to build or carry no edits become
// SkippedFix entries. Пустой ID дополняется синтезированным, повторный ID
// отбрасывается: `fix --id` всегда называет ровно один fix.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []*diag.Diagnostic) ([]pendingFix, []SkippedFix) {
	var pending []pendingFix
	var skips []SkippedFix
	seen := make(map[string]struct{})

	seq := 0
	for _, d := range diagnostics {
		if d == nil || len(d.Fixes) == 0 {
			continue
		}

		fixes, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			reason := fmt.Sprintf("building edits failed: %v", err)
			skips = append(skips, SkippedFix{Title: d.Message, Reason: reason})
			continue
		}

		for idx, f := range fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, skipRecord(f, "fix has no edits"))
				continue
			}
			if f.ID == "" {
				f.ID = fallbackID(d, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, skipRecord(f, "fix id seen twice"))
				continue
			}
			seen[f.ID] = struct{}{}
			pending = append(pending, pendingFix{d: d, fix: f, seq: seq})
			seq++
		}
	}
	return pending, skips
}

func skipRecord(f diag.Fix, why string) SkippedFix {
	return SkippedFix{ID: f.ID, Title: f.Title, Reason: why}
}

// fallbackID синтезирует идентификатор из кода, файла, смещения и номера
// fix'а внутри диагностики.
func fallbackID(d *diag.Diagnostic, idx int) string {
	return fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
}

// orderPending orders fixes by file, then span, then insertion order, code,
// preference, ID, and title. Walk order is sorted, so this keeps fix IDs and
// --once selection stable between runs over the same tree.
func orderPending(pending []pendingFix) {
	slices.SortStableFunc(pending, func(a, c pendingFix) int {
		if d := compareSpans(a.d.Primary, c.d.Primary); d != 0 {
			return d
		}
		if a.seq != c.seq {
			return a.seq - c.seq
		}
		if a.d.Code != c.d.Code {
			return int(a.d.Code) - int(c.d.Code)
		}
		if a.fix.IsPreferred != c.fix.IsPreferred {
			if a.fix.IsPreferred {
				return -1
			}
			return 1
		}
		if a.fix.ID != c.fix.ID {
			return strings.Compare(a.fix.ID, c.fix.ID)
		}
		return strings.Compare(a.fix.Title, c.fix.Title)
	})
}

func compareSpans(a, c source.Span) int {
	if a.File != c.File {
		return int(a.File) - int(c.File)
	}
	if a.Start != c.Start {
		return int(a.Start) - int(c.Start)
	}
	return int(a.End) - int(c.End)
}

// pick отбирает подмножество fix'ов по режиму. Неизвестный режим ничего не
// выбирает, и Apply превратит пустой выбор в ErrNoFixes.
func pick(pending []pendingFix, opts ApplyOptions) ([]pendingFix, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		return pickByID(pending, opts.TargetID)
	case ApplyModeAll:
		return pickSafe(pending)
	case ApplyModeOnce:
		return pickFirst(pending)
	default:
		return nil, nil
	}
}

func pickByID(pending []pendingFix, targetID string) ([]pendingFix, []SkippedFix) {
	for _, p := range pending {
		if p.fix.ID != targetID {
			continue
		}
		if p.fix.RequiresAll {
			return nil, []SkippedFix{{
				ID:     targetID,
				Reason: "fix only applies in --all mode",
			}}
		}
		return []pendingFix{p}, nil
	}
	return nil, []SkippedFix{{
		ID:     targetID,
		Reason: "fix id not found",
	}}
}

// pickSafe берёт все безусловно безопасные fix'ы; остальные уходят в skip
// с их applicability в качестве причины.
func pickSafe(pending []pendingFix) ([]pendingFix, []SkippedFix) {
	picked := make([]pendingFix, 0, len(pending))
	var skips []SkippedFix
	for _, p := range pending {
		if p.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
			picked = append(picked, p)
			continue
		}
		skips = append(skips, skipRecord(p.fix, fmt.Sprintf("unsafe to auto-apply (%s)", p.fix.Applicability.String())))
	}
	return picked, skips
}

// pickFirst реализует --once: первый безусловно безопасный fix побеждает,
// иначе берётся первый небезопасный. RequiresAll в одиночку не применяется.
func pickFirst(pending []pendingFix) ([]pendingFix, []SkippedFix) {
	var skips []SkippedFix
	var fallback *pendingFix
	for i := range pending {
		p := pending[i]
		if p.fix.RequiresAll {
			skips = append(skips, skipRecord(p.fix, "fix only applies in --all mode"))
			continue
		}
		if p.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
			return []pendingFix{p}, skips
		}
		if fallback == nil {
			fallback = &pending[i]
		}
	}
	if fallback != nil {
		return []pendingFix{*fallback}, skips
	}
	return nil, skips
}

func appliedRecord(fs *source.FileSet, p pendingFix, edits int) AppliedFix {
	return AppliedFix{
		ID:            p.fix.ID,
		Title:         p.fix.Title,
		Code:          p.d.Code,
		Message:       p.d.Message,
		Applicability: p.fix.Applicability,
		PrimaryPath:   pathFor(fs, p.d.Primary.File),
		EditCount:     edits,
	}
}

func pathFor(fs *source.FileSet, id source.FileID) string {
	if f := fs.Get(id); f != nil {
		return f.FormatPath("auto", fs.BaseDir())
	}
	return ""
}

// applier carries the working state of one apply run: the mutated buffer and
// the already-applied edits per file, so every later fix sees the text the
// earlier ones produced and positions shift by the accumulated delta.
type applier struct {
	fs        *source.FileSet
	baseDir   string
	buffers   map[source.FileID][]byte
	committed map[source.FileID][]diag.TextEdit
	editCount map[source.FileID]int
}

// stagedFile is one file's outcome of staging a single fix: буфер с уже
// вшитыми правками, их количество и расширенный список применённых правок.
type stagedFile struct {
	buf       []byte
	added     int
	committed []diag.TextEdit
}

func newApplier(fs *source.FileSet) *applier {
	return &applier{
		fs:        fs,
		baseDir:   fs.BaseDir(),
		buffers:   make(map[source.FileID][]byte),
		committed: make(map[source.FileID][]diag.TextEdit),
		editCount: make(map[source.FileID]int),
	}
}

// stage tries one fix against the current state. It mutates nothing: on
// success the returned map holds every touched file's new buffer, on failure
// the reason explains the skip. Правка применяется целиком или никак,
// половинчатых fix'ов не бывает.
func (a *applier) stage(p pendingFix) (map[source.FileID]stagedFile, int, string) {
	staged := make(map[source.FileID]stagedFile)
	total := 0

	for fileID, edits := range groupEditsByFile(p.fix.Edits) {
		file := a.fs.Get(fileID)
		if file.Virtual() {
			return nil, 0, "virtual file has no on-disk target"
		}
		if overlapsCommitted(a.committed[fileID], edits) {
			return nil, 0, fmt.Sprintf("overlaps edits already applied in %s", file.FormatPath("auto", a.baseDir))
		}

		buf := a.buffers[fileID]
		if buf == nil {
			buf = file.Content
		}
		buf = slices.Clone(buf)

		// Правим снизу вверх, чтобы ранние правки не сдвигали поздние.
		slices.SortStableFunc(edits, func(x, y diag.TextEdit) int {
			if x.Span.Start == y.Span.Start {
				return compareOffsets(y.Span.End, x.Span.End)
			}
			return compareOffsets(y.Span.Start, x.Span.Start)
		})

		committed := slices.Clone(a.committed[fileID])
		for _, e := range edits {
			var why string
			buf, committed, why = applyOne(buf, committed, e)
			if why != "" {
				return nil, 0, why
			}
		}

		staged[fileID] = stagedFile{buf: buf, added: len(edits), committed: committed}
		total += len(edits)
	}
	return staged, total, ""
}

func compareOffsets(a, c uint32) int {
	switch {
	case a < c:
		return -1
	case a > c:
		return 1
	default:
		return 0
	}
}

// applyOne folds a single edit into buf. Смещения правки даны в координатах
// исходного файла, поэтому сначала они сдвигаются на дельту уже применённых
// правок, затем проверяется guard.
func applyOne(buf []byte, committed []diag.TextEdit, e diag.TextEdit) ([]byte, []diag.TextEdit, string) {
	start := int(e.Span.Start) + shiftAt(committed, int(e.Span.Start))
	end := int(e.Span.End) + shiftAt(committed, int(e.Span.End))
	if start < 0 || end < start || end > len(buf) {
		return buf, committed, "edit span exceeds file bounds"
	}
	if e.OldText != "" && string(buf[start:end]) != e.OldText {
		return buf, committed, "guard text differs from file content"
	}

	out := make([]byte, 0, len(buf)+len(e.NewText)-(end-start))
	out = append(out, buf[:start]...)
	out = append(out, e.NewText...)
	out = append(out, buf[end:]...)
	return out, rememberEdit(committed, e), ""
}

// shiftAt возвращает суммарный сдвиг позиции pos после применённых правок.
// Правка двигает pos, только когда целиком лежит до него; список отсортирован
// по началу, так что обход обрывается на первой правке за позицией.
func shiftAt(committed []diag.TextEdit, pos int) int {
	shift := 0
	for _, e := range committed {
		if int(e.Span.Start) > pos {
			break
		}
		if int(e.Span.End) <= pos {
			shift += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return shift
}

// rememberEdit вставляет правку в список, сохраняя порядок по началу спана.
func rememberEdit(committed []diag.TextEdit, e diag.TextEdit) []diag.TextEdit {
	at := sort.Search(len(committed), func(i int) bool {
		if committed[i].Span.Start == e.Span.Start {
			return committed[i].Span.End >= e.Span.End
		}
		return committed[i].Span.Start > e.Span.Start
	})
	return slices.Insert(committed, at, e)
}

func (a *applier) commit(staged map[source.FileID]stagedFile) {
	for fileID, s := range staged {
		a.buffers[fileID] = s.buf
		a.committed[fileID] = s.committed
		a.editCount[fileID] += s.added
	}
}

// flush writes every touched buffer back to disk (unless dryRun) and reports
// the per-file change summary. The original file mode is kept, and a stripped
// BOM is put back in front of the content.
func (a *applier) flush(dryRun bool) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(a.buffers))
	for fileID, buf := range a.buffers {
		file := a.fs.Get(fileID)
		if file.HadBOM() {
			buf = append(source.BOMBytes(), buf...)
		}

		if !dryRun {
			if err := writeBack(file.Path, buf); err != nil {
				return changes, err
			}
		}

		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", a.baseDir),
			EditCount: a.editCount[fileID],
		})
	}

	slices.SortFunc(changes, func(x, y FileChange) int {
		return strings.Compare(x.Path, y.Path)
	})
	return changes, nil
}

// writeBack сохраняет буфер по пути файла, не меняя его права.
func writeBack(path string, buf []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, buf, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// overlapsCommitted reports whether any new edit collides with an already
// applied one in the same file.
func overlapsCommitted(committed, edits []diag.TextEdit) bool {
	for _, e := range edits {
		for _, prev := range committed {
			if editsCollide(prev, e) {
				return true
			}
		}
	}
	return false
}

// editsCollide reports whether two edits' half-open spans overlap. Вставки
// нулевой ширины между собой не конфликтуют, зато вставка внутрь чужого
// непустого спана запрещена. Границы остаются легальными: вставка заголовка
// в начало файла уживается с правкой соседнего текста.
func editsCollide(a, b diag.TextEdit) bool {
	if a.Span.Len() == 0 && b.Span.Len() == 0 {
		return false
	}
	if a.Span.Len() == 0 {
		return b.Span.Start <= a.Span.Start && a.Span.Start < b.Span.End
	}
	if b.Span.Len() == 0 {
		return a.Span.Start <= b.Span.Start && b.Span.Start < a.Span.End
	}
	return a.Span.Start < b.Span.End && b.Span.Start < a.Span.End
}

func groupEditsByFile(edits []diag.TextEdit) map[source.FileID][]diag.TextEdit {
	byFile := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}
	return byFile
}
