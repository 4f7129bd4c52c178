package driver

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"weft/internal/diag"
	"weft/internal/expr"
	"weft/internal/format"
	"weft/internal/lexer"
	"weft/internal/parser"
	"weft/internal/source"
)

// FormatOptions configures template formatting.
type FormatOptions struct {
	Check          bool
	Stdout         bool
	MaxDiagnostics int
	Jobs           int
	Options        format.Options
	Cache          *FormatCache
	Progress       ProgressSink
}

// FormatResult captures the result of formatting a single file. FileSet is
// the per-file set the diagnostics in Bag resolve against.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
	Bag       *diag.Bag
	FileSet   *source.FileSet
}

// FormatPaths formats provided files or directories (recursively collecting
// .weft files) in parallel. When opts.Check is true, files are not modified;
// Changed indicates whether formatting would update the file contents. When
// opts.Stdout is true, formatted content is returned in the results without
// touching files on disk. Results are ordered by path.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := collectTemplateFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no template files found")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusQueued})
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = formatOneFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatOneFile(path string, opts FormatOptions) FormatResult {
	started := time.Now()
	result := FormatResult{Path: path}

	fail := func(err error) FormatResult {
		result.Err = err
		emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return result
	}
	done := func() FormatResult {
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(started)})
		return result
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})

	formatted, bag, fileSet, sf, err := formatSingleFile(path, opts)
	result.Bag = bag
	result.FileSet = fileSet
	if err != nil {
		return fail(err)
	}

	changed := !bytes.Equal(sf.Content, formatted)

	if opts.Check {
		result.Changed = changed
		return done()
	}
	if opts.Stdout {
		result.Formatted = formatted
		result.Changed = changed
		return done()
	}

	if changed {
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
			return fail(err)
		}
		result.Changed = true
	}
	return done()
}

func formatSingleFile(path string, opts FormatOptions) (formatted []byte, bag *diag.Bag, fileSet *source.FileSet, sf *source.File, err error) {
	fileSet = source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sf = fileSet.Get(fileID)

	fopts := opts.Options
	key := FormatCacheKey(sf.Hash, fopts)
	if opts.Cache != nil {
		var payload FormatPayload
		if hit, cacheErr := opts.Cache.Get(key, &payload); cacheErr == nil && hit {
			return payload.Formatted, nil, fileSet, sf, nil
		}
	}

	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}
	bag = diag.NewBag(maxDiag)

	lx := lexer.New(sf, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	maxErrors, convErr := safecast.Conv[uint](bag.Cap())
	if convErr != nil {
		maxErrors = 0
	}
	parseRes := parser.ParseFile(lx, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: maxErrors})
	if bag.HasErrors() {
		return nil, bag, fileSet, sf, errors.New("format: parse errors present")
	}

	canon := expr.New(expr.Options{MaxWidth: fopts.WrapThreshold})
	formatted, err = format.FormatFile(parseRes.Nodes, canon, fopts)
	if err != nil {
		return nil, bag, fileSet, sf, err
	}

	if opts.Cache != nil {
		// Промах кеша не фатален, ошибку записи тоже игнорируем.
		_ = opts.Cache.Put(key, &FormatPayload{
			Schema:    formatCacheSchemaVersion,
			Path:      path,
			Formatted: formatted,
		})
	}
	return formatted, bag, fileSet, sf, nil
}

// CollectTemplateFiles exposes file discovery for callers that need the file
// list up front, e.g. to size a progress display.
func CollectTemplateFiles(ctx context.Context, paths []string) ([]string, error) {
	return collectTemplateFiles(ctx, paths)
}

func collectTemplateFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if filepath.Ext(path) == ".weft" {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		if filepath.Ext(p) == ".weft" {
			addFile(p)
		}
	}

	sort.Strings(files)
	return files, nil
}
