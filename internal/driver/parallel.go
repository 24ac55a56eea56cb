package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"headerlint/internal/config"
	"headerlint/internal/diag"
	"headerlint/internal/header"
	"headerlint/internal/observ"
	"headerlint/internal/source"
)

// CheckPath проверяет файл или директорию, смотря что лежит по пути.
func CheckPath(ctx context.Context, path string, cfg *config.Config, spec *header.Spec, opts Options) (*source.FileSet, []Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return CheckDir(ctx, path, cfg, spec, opts)
	}
	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	out := CheckFile(fileSet, spec, openCache(opts), path, opts)
	return fileSet, []Outcome{*out}, nil
}

// CheckDir проверяет все подходящие файлы в директории параллельно.
func CheckDir(ctx context.Context, dir string, cfg *config.Config, spec *header.Spec, opts Options) (*source.FileSet, []Outcome, error) {
	files, err := ListFiles(dir, cfg)
	if err != nil {
		return nil, nil, err
	}
	return CheckFiles(ctx, dir, files, spec, opts)
}

// CheckFiles проверяет заданный список файлов параллельно. baseDir задаёт
// базу для относительных путей в прогрессе и выводе. Порядок результатов
// повторяет порядок files.
func CheckFiles(ctx context.Context, baseDir string, files []string, spec *header.Spec, opts Options) (*source.FileSet, []Outcome, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Load не потокобезопасен, поэтому вся загрузка происходит до старта
	// воркеров. Ошибка загрузки не валит прогон: такой файл получит
	// диагностику IOLoadFileError в своём Outcome.
	loaded, failed := preloadFiles(fileSet, baseDir, files, opts)

	cache := openCache(opts)
	results := make([]Outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workerCount(opts), len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			name := progressName(baseDir, path)
			emit(opts.Progress, Event{File: name, Stage: StageCheck, Status: StatusWorking})
			started := time.Now()

			bag := diag.NewBag(bagLimit(opts))
			out := Outcome{Path: path, Bag: bag}

			if loadErr, ok := failed[path]; ok {
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()).Emit()
				results[i] = out
				emit(opts.Progress, Event{
					File:    name,
					Stage:   StageCheck,
					Status:  StatusError,
					Err:     loadErr,
					Elapsed: time.Since(started),
				})
				return nil
			}

			out.FileID = loaded[path]

			var timer *observ.Timer
			if opts.EnableTimings {
				timer = observ.NewTimer()
			}
			checkLoaded(&out, fileSet.Get(out.FileID), spec, cache, timer)
			if timer != nil {
				report := timer.Report()
				out.Timing = &report
			}

			// индекс i уникален для горутины, записи results не пересекаются
			results[i] = out
			emit(opts.Progress, Event{
				File:     name,
				Stage:    StageCheck,
				Status:   StatusDone,
				Findings: bag.Len(),
				Elapsed:  time.Since(started),
			})
			return nil
		})
	}

	err := g.Wait()
	return fileSet, results, err
}

// preloadFiles грузит файлы в FileSet и объявляет их очередь в прогрессе.
// Возвращает ID успешно загруженных файлов и ошибки остальных.
func preloadFiles(fileSet *source.FileSet, baseDir string, files []string, opts Options) (map[string]source.FileID, map[string]error) {
	loaded := make(map[string]source.FileID, len(files))
	failed := make(map[string]error)
	for _, path := range files {
		emit(opts.Progress, Event{File: progressName(baseDir, path), Stage: StageCheck, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			failed[path] = err
			continue
		}
		loaded[path] = id
	}
	return loaded, failed
}

// workerCount определяет число воркеров: Jobs из опций, при <=0 GOMAXPROCS.
func workerCount(opts Options) int {
	if opts.Jobs > 0 {
		return opts.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// progressName переводит путь в относительный для событий прогресса.
func progressName(baseDir, path string) string {
	if baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return path
	}
	return rel
}
