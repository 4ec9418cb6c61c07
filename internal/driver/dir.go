package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"splice/internal/diag"
	"splice/internal/pipeline"
	"splice/internal/source"
	"splice/internal/trace"
)

// DefaultInclude selects Rust sources.
var DefaultInclude = []string{"**/*.rs"}

// DirResult collects the per-file results of ExpandDir in file order.
type DirResult struct {
	Root    string
	FileSet *source.FileSet
	Files   []*ExpandResult
	Timings pipeline.Timings
}

// ErrorCount sums error diagnostics over all files.
func (d *DirResult) ErrorCount() int {
	n := 0
	for _, f := range d.Files {
		if f != nil {
			n += f.Bag.ErrorCount()
		}
	}
	return n
}

// Bag merges every file's diagnostics, sorted.
func (d *DirResult) Bag() *diag.Bag {
	all := diag.NewBag(0)
	for _, f := range d.Files {
		if f != nil {
			all.Merge(f.Bag)
		}
	}
	all.Sort()
	return all
}

// ListFiles returns the files under dir matched by include and not by
// exclude, as sorted slash-separated paths relative to dir.
func ListFiles(dir string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	fsys := os.DirFS(dir)
	seen := make(map[string]struct{})
	var files []string
	for _, pat := range include {
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad include pattern %q: %w", pat, err)
		}
	next:
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			for _, ex := range exclude {
				if ok, _ := doublestar.Match(ex, m); ok {
					continue next
				}
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ExpandDir expands every selected file under dir. Files are independent:
// one failing file does not stop the others. The returned error is only
// set for listing failures and cancellation.
func ExpandDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	files, err := ListFiles(dir, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	return ExpandFiles(ctx, dir, files, opts)
}

// ExpandFiles expands the given paths, relative to dir, in parallel.
func ExpandFiles(ctx context.Context, dir string, files []string, opts Options) (*DirResult, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "expand-dir", trace.ParentFrom(ctx))
	ctx = trace.WithParent(ctx, root)

	fileSet := source.NewFileSetWithBase(dir)
	res := &DirResult{Root: dir, FileSet: fileSet, Files: make([]*ExpandResult, len(files))}
	pipeline.EmitQueued(opts.Progress, files)

	// загрузка последовательная: FileSet не потокобезопасен на запись
	loaded := make([]*source.File, len(files))
	for i, rel := range files {
		id, err := fileSet.Load(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			bag := diag.NewBag(opts.MaxDiagnostics)
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{}, "failed to load "+rel+": "+err.Error()).Emit()
			res.Files[i] = &ExpandResult{Path: rel, FileSet: fileSet, Bag: bag}
			pipeline.Emit(opts.Progress, pipeline.Event{File: rel, Stage: pipeline.StageLex, Status: pipeline.StatusError, Err: err})
			continue
		}
		loaded[i] = fileSet.Get(id)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, rel := range files {
		if loaded[i] == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			res.Files[i] = expandFile(gctx, fileSet, loaded[i], rel, opts)
			return nil
		})
	}
	err := g.Wait()

	for _, f := range res.Files {
		if f != nil {
			res.Timings.Merge(f.Timings)
		}
	}
	root.WithExtra("files", fmt.Sprint(len(files))).End(fmt.Sprintf("%d errors", res.ErrorCount()))
	return res, err
}
