package driver

import (
	"fmt"

	"headerlint/internal/diag"
	"headerlint/internal/header"
	"headerlint/internal/observ"
	"headerlint/internal/source"
)

// cacheAppName is the directory name under the user cache root.
const cacheAppName = "headerlint"

// defaultMaxDiagnostics caps the bag when the caller leaves the limit unset.
const defaultMaxDiagnostics = 100

// Options содержит опции для проверки
type Options struct {
	// MaxDiagnostics ограничивает число диагностик на файл; при <=0 берётся
	// значение по умолчанию.
	MaxDiagnostics int
	// Jobs задаёт число воркеров при обходе директории; при <=0 GOMAXPROCS.
	Jobs int
	// NoCache отключает дисковый кэш результатов.
	NoCache bool
	// EnableTimings собирает длительности фаз в Outcome.Timing.
	EnableTimings bool
	// Progress receives per-file events during directory runs; may be nil.
	Progress ProgressSink
}

// Outcome is the verdict for one checked file.
type Outcome struct {
	Path      string
	FileID    source.FileID
	Bag       *diag.Bag
	FromCache bool
	Timing    *observ.Report
}

func bagLimit(opts Options) int {
	if opts.MaxDiagnostics > 0 {
		return opts.MaxDiagnostics
	}
	return defaultMaxDiagnostics
}

// openCache returns the shared result cache, or nil when caching is disabled
// or unavailable. Проверка без кэша работает так же, только медленнее.
func openCache(opts Options) *ResultCache {
	if opts.NoCache {
		return nil
	}
	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		return nil
	}
	return cache
}

// CheckFile загружает и проверяет один файл. Ошибка загрузки превращается в
// диагностику IOLoadFileError, а не в ошибку вызова.
func CheckFile(fileSet *source.FileSet, spec *header.Spec, cache *ResultCache, path string, opts Options) *Outcome {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	bag := diag.NewBag(bagLimit(opts))
	out := &Outcome{Path: path, Bag: bag}

	loadIdx := begin("load")
	fileID, err := fileSet.Load(path)
	end(loadIdx, "")
	if err != nil {
		// спан пустой: у ошибки ввода-вывода нет позиции в файле
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{},
			"failed to load file: "+err.Error()).Emit()
		finishFileTimings(out, timer, path)
		return out
	}
	out.FileID = fileID

	checkLoaded(out, fileSet.Get(fileID), spec, cache, timer)
	finishFileTimings(out, timer, path)
	return out
}

// checkLoaded validates an already-loaded file, consulting the cache first.
// Cache failures degrade to a plain validation, never to an error.
func checkLoaded(out *Outcome, file *source.File, spec *header.Spec, cache *ResultCache, timer *observ.Timer) {
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	key := resultKey(file.Hash, spec.Hash())
	rep := diag.BagReporter{Bag: out.Bag}

	if cache != nil {
		cacheIdx := begin("cache")
		var payload resultPayload
		ok, err := cache.Get(key, &payload)
		if err == nil && ok && payload.Schema == resultCacheSchemaVersion {
			end(cacheIdx, "hit")
			out.FromCache = true
			if f := payload.finding(file.ID); f != nil {
				emitFinding(rep, file, f)
			}
			return
		}
		// сбой чтения или смена схемы считается обычным промахом
		end(cacheIdx, "miss")
	}

	validateIdx := begin("validate")
	finding := header.Validate(file, spec)
	if finding != nil {
		emitFinding(rep, file, finding)
	}
	validateNote := ""
	if timer != nil {
		validateNote = fmt.Sprintf("diags=%d", out.Bag.Len())
	}
	end(validateIdx, validateNote)

	if cache != nil {
		_ = cache.Put(key, payloadFromFinding(finding)) // cache is best-effort
	}
}

// finishFileTimings attaches the report to the outcome and appends the
// timings diagnostic, the way single-file runs surface them.
func finishFileTimings(out *Outcome, timer *observ.Timer, path string) {
	if timer == nil {
		return
	}
	report := timer.Report()
	out.Timing = &report
	appendTimingDiagnostic(out.Bag, timingPayload{
		Kind:    "file",
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}
