package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"splice/internal/diag"
	"splice/internal/format"
	"splice/internal/lexer"
	"splice/internal/paste"
	"splice/internal/pipeline"
	"splice/internal/source"
	"splice/internal/token"
	"splice/internal/trace"
)

// printIndent indents brace bodies in printed output.
const printIndent = "    "

// Options configures ExpandFile and ExpandDir.
type Options struct {
	MaxDiagnostics int
	DocComments    bool
	// ErrorTokens replaces the output of a failed file with the
	// compile_error! tokens of its paste error.
	ErrorTokens   bool
	ShowInvisible bool
	// LookupEnv resolves env! segments; nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Cache is consulted before and filled after expansion when non-nil.
	Cache *DiskCache
	// OutDir receives the printed output of every file, mirroring its
	// relative path. Empty means the caller handles Text.
	OutDir   string
	Progress pipeline.ProgressSink
	// Jobs bounds ExpandDir's parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Include and Exclude are doublestar globs relative to the directory
	// given to ExpandDir. Include defaults to **/*.rs.
	Include []string
	Exclude []string
}

func (o *Options) lookupEnv() func(string) (string, bool) {
	if o.LookupEnv != nil {
		return o.LookupEnv
	}
	return os.LookupEnv
}

// EnvDep records what an env! lookup saw.
type EnvDep struct {
	Value string `msgpack:"v"`
	Set   bool   `msgpack:"s"`
}

// ExpandResult is the outcome of expanding one file.
type ExpandResult struct {
	// Path is the file path relative to the base directory.
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Input   token.Stream
	// Output is nil for cache hits and for failed files without ErrorTokens.
	Output  token.Stream
	Text    []byte
	Changed bool
	Bag     *diag.Bag
	EnvDeps map[string]EnvDep
	Timings pipeline.Timings
	Cached  bool
	// Err is the paste failure, if any. Cache hits do not restore it.
	Err *paste.Error
}

// Failed reports whether any error diagnostic was produced.
func (r *ExpandResult) Failed() bool {
	return r.Bag.HasErrors()
}

// ExpandFile loads path and expands it.
func ExpandFile(ctx context.Context, path string, opts Options) (*ExpandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(id)
	return expandFile(ctx, fs, file, filepath.Base(path), opts), nil
}

// envRecorder wraps a lookup and remembers every answer it gave.
type envRecorder struct {
	base func(string) (string, bool)
	deps map[string]EnvDep
}

func (r *envRecorder) lookup(name string) (string, bool) {
	v, ok := r.base(name)
	if r.deps == nil {
		r.deps = make(map[string]EnvDep)
	}
	r.deps[name] = EnvDep{Value: v, Set: ok}
	return v, ok
}

type fileRun struct {
	res    *ExpandResult
	opts   *Options
	tracer trace.Tracer
	span   *trace.Span
}

func (fr *fileRun) stage(st pipeline.Stage, fn func()) {
	pipeline.Emit(fr.opts.Progress, pipeline.Event{File: fr.res.Path, Stage: st, Status: pipeline.StatusWorking})
	sp := trace.Begin(fr.tracer, trace.ScopePass, string(st), fr.span.ID())
	start := time.Now()
	fn()
	fr.res.Timings.Add(st, time.Since(start))
	sp.End("")
}

// write copies Text into OutDir. Write failures are diagnostics of the file
// and are never cached.
func (fr *fileRun) write() {
	res := fr.res
	if fr.opts.OutDir == "" || res.Text == nil {
		return
	}
	fr.stage(pipeline.StageWrite, func() {
		if err := writeOutput(fr.opts.OutDir, res.Path, res.Text); err != nil {
			diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOWriteFileError, source.Span{File: res.File.ID}, err.Error()).Emit()
		}
	})
}

func expandFile(ctx context.Context, fs *source.FileSet, file *source.File, rel string, opts Options) *ExpandResult {
	tracer := trace.FromContext(ctx)
	started := time.Now()
	res := &ExpandResult{
		Path:    rel,
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	fr := &fileRun{
		res:    res,
		opts:   &opts,
		tracer: tracer,
		span:   trace.Begin(tracer, trace.ScopeFile, "file:"+rel, trace.ParentFrom(ctx)),
	}
	env := &envRecorder{base: opts.lookupEnv()}

	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file.Content, opts.fingerprint())
		if opts.Cache.restore(key, res, env.lookup) {
			res.EnvDeps = env.deps
			fr.write()
			fr.span.End("cached")
			status := pipeline.StatusCached
			if res.Failed() {
				status = pipeline.StatusError
			}
			pipeline.Emit(opts.Progress, pipeline.Event{File: rel, Status: status, Elapsed: time.Since(started)})
			return res
		}
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	lexOpts := lexer.Options{Reporter: reporter, DocComments: opts.DocComments}
	var tokens []token.Token
	fr.stage(pipeline.StageLex, func() {
		tokens = lexer.New(file, lexOpts).All()
	})
	fr.stage(pipeline.StageTree, func() {
		res.Input = lexer.Build(tokens, lexOpts)
	})
	fr.stage(pipeline.StageExpand, func() {
		exp := paste.NewExpander(paste.Options{LookupEnv: env.lookup, Tracer: tracer, Parent: fr.span.ID()})
		out, changed, err := exp.ExpandChanged(res.Input)
		if err == nil {
			res.Output, res.Changed = out, changed
			return
		}
		var pe *paste.Error
		if !errors.As(err, &pe) {
			diag.ReportError(reporter, diag.PasteInfo, source.Span{File: file.ID}, err.Error()).Emit()
			return
		}
		res.Err = pe
		pe.Report(reporter)
		if opts.ErrorTokens {
			res.Output, res.Changed = pe.CompileError(), true
		}
	})
	if res.Output != nil {
		fr.stage(pipeline.StagePrint, func() {
			res.Text = format.Bytes(res.Output, format.Options{ShowInvisible: opts.ShowInvisible, Indent: printIndent})
		})
	}
	res.EnvDeps = env.deps

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, newPayload(res)); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache-write-failed", fr.span.ID(), err.Error())
		}
	}
	fr.write()

	status := pipeline.StatusDone
	detail := "ok"
	if res.Failed() {
		status, detail = pipeline.StatusError, fmt.Sprintf("%d errors", res.Bag.ErrorCount())
	}
	fr.span.End(detail)
	pipeline.Emit(opts.Progress, pipeline.Event{File: rel, Status: status, Elapsed: time.Since(started)})
	return res
}

func writeOutput(outDir, rel string, text []byte) error {
	dst := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, text, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
