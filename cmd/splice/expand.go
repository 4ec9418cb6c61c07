package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"splice/internal/config"
	"splice/internal/diagfmt"
	"splice/internal/driver"
	"splice/internal/trace"
	"splice/internal/version"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] [file.rs|directory]",
	Short: "Expand identifier pastes in a file or directory",
	Long: `Expand rewrites every [<...>] paste operation into the identifier it
describes. A directory is expanded file by file using the include and exclude
globs of splice.toml; flags set on the command line win over the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExpand,
}

func init() {
	registerExpandFlags(expandCmd)
}

func registerExpandFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "text", "output format (text|tokens|json)")
	f.String("on-error", "diag", "what a failed paste becomes (diag|tokens)")
	f.Bool("show-invisible", false, "print invisible groups between « and »")
	f.String("out", "", "write expanded files under this directory instead of stdout")
	f.Int("jobs", 0, "max parallel workers for directories (0=auto)")
	f.String("ui", "auto", "progress UI for directories (auto|on|off)")
	f.Bool("no-cache", false, "neither read nor write the expansion cache")
	f.Bool("watch", false, "re-expand files as they change until interrupted")
	f.Bool("doc-comments", true, "lex doc comments as #[doc] attributes")
}

// flagReader is the part of a flag set resolveExpandSettings reads.
type flagReader interface {
	Changed(name string) bool
	GetString(name string) (string, error)
	GetBool(name string) (bool, error)
	GetInt(name string) (int, error)
}

type expandSettings struct {
	format        config.OutputFormat
	onError       config.OnError
	showInvisible bool
	outDir        string
	jobs          int
	docComments   bool
	ui            uiMode
	noCache       bool
	watch         bool
}

// resolveExpandSettings layers the flags the user set over cfg.
func resolveExpandSettings(flags flagReader, cfg config.Config) (expandSettings, error) {
	s := expandSettings{
		format:        cfg.Output.Format,
		onError:       cfg.Expand.OnError,
		showInvisible: cfg.Output.ShowInvisible,
		outDir:        cfg.Output.Dir,
		jobs:          cfg.Expand.Jobs,
		docComments:   cfg.Expand.DocComments,
	}
	if s.outDir != "" && !filepath.IsAbs(s.outDir) && cfg.Root != "" {
		s.outDir = filepath.Join(cfg.Root, s.outDir)
	}

	var err error
	str := func(name string, dst *string) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetBool(name)
		}
	}
	format, onError, uiValue := string(s.format), string(s.onError), ""
	str("format", &format)
	str("on-error", &onError)
	str("out", &s.outDir)
	str("ui", &uiValue)
	boolean("show-invisible", &s.showInvisible)
	boolean("doc-comments", &s.docComments)
	boolean("no-cache", &s.noCache)
	boolean("watch", &s.watch)
	if err == nil && flags.Changed("jobs") {
		s.jobs, err = flags.GetInt("jobs")
	}
	if err != nil {
		return s, fmt.Errorf("failed to read flags: %w", err)
	}

	s.format = config.OutputFormat(strings.ToLower(format))
	switch s.format {
	case config.FormatText, config.FormatTokens, config.FormatJSON:
	default:
		return s, fmt.Errorf("unknown format %q (expected text|tokens|json)", format)
	}
	s.onError = config.OnError(strings.ToLower(onError))
	switch s.onError {
	case config.OnErrorDiag, config.OnErrorTokens:
	default:
		return s, fmt.Errorf("invalid --on-error value %q (expected diag|tokens)", onError)
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative")
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	return s, nil
}

// loadConfig reads --config or discovers splice.toml above dir, and checks
// the running version against it.
func loadConfig(cmd *cobra.Command, dir string) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(dir)
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.CheckVersion(version.Semver()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// expandTarget is what one expand invocation works on.
type expandTarget struct {
	path  string // the file, or the directory under root to expand
	isDir bool
	root  string // globs and output paths are relative to root
	cfg   config.Config
}

func (t *expandTarget) selected(abs string) bool {
	if !t.isDir {
		return filepath.Clean(abs) == filepath.Clean(t.path)
	}
	rel, err := filepath.Rel(t.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	if !within(t.path, abs) {
		return false
	}
	return t.cfg.Selected(filepath.ToSlash(rel))
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// files lists the selected files below path, relative to root.
func (t *expandTarget) files() ([]string, error) {
	all, err := driver.ListFiles(t.root, t.cfg.Expand.Include, t.cfg.Expand.Exclude)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rel := range all {
		if within(t.path, filepath.Join(t.root, filepath.FromSlash(rel))) {
			out = append(out, rel)
		}
	}
	return out, nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	arg := "."
	if len(args) == 1 {
		arg = args[0]
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot expand %s: %w", arg, err)
	}

	target := &expandTarget{path: abs, isDir: st.IsDir()}
	dir := abs
	if !target.isDir {
		dir = filepath.Dir(abs)
	}
	if target.cfg, err = loadConfig(cmd, dir); err != nil {
		return err
	}
	target.root = dir
	if target.isDir && target.cfg.Path != "" && within(target.cfg.Root, abs) {
		target.root = target.cfg.Root
	}

	settings, err := resolveExpandSettings(cmd.Flags(), target.cfg)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		DocComments:    settings.docComments,
		ErrorTokens:    settings.onError == config.OnErrorTokens,
		ShowInvisible:  settings.showInvisible,
		OutDir:         settings.outDir,
		Jobs:           settings.jobs,
		Include:        target.cfg.Expand.Include,
		Exclude:        target.cfg.Expand.Exclude,
	}
	// кэш хранит только текст
	if !settings.noCache && settings.format == config.FormatText {
		if c, err := driver.OpenDiskCache(cacheApp); err == nil {
			opts.Cache = c
		} else if !quiet(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "splice: cache disabled: %v\n", err)
		}
	}

	ctx := cmd.Context()
	res, err := expandOnce(ctx, cmd, target, settings, opts, nil)
	if err != nil {
		return err
	}
	failed := report(cmd, res, settings)

	if settings.watch {
		return watchAndExpand(ctx, cmd, target, settings, opts)
	}
	if failed {
		dumpTraceRing(cmd)
		return errReported
	}
	return nil
}

// expandOnce runs the driver over target, or only over changed when it is
// non-nil.
func expandOnce(ctx context.Context, cmd *cobra.Command, target *expandTarget, s expandSettings, opts driver.Options, changed []string) (*driver.DirResult, error) {
	if !target.isDir {
		r, err := driver.ExpandFile(ctx, target.path, opts)
		if err != nil {
			return nil, err
		}
		return &driver.DirResult{Root: filepath.Dir(target.path), FileSet: r.FileSet, Files: []*driver.ExpandResult{r}, Timings: r.Timings}, nil
	}

	files := changed
	if files == nil {
		var err error
		if files, err = target.files(); err != nil {
			return nil, err
		}
	}
	run := func(ctx context.Context, o driver.Options) (*driver.DirResult, error) {
		return driver.ExpandFiles(ctx, target.root, files, o)
	}
	if len(files) > 1 && !quiet(cmd) && shouldUseTUI(s.ui) {
		title := fmt.Sprintf("expanding %d files", len(files))
		return runWithUI(ctx, title, files, opts, run)
	}
	return run(ctx, opts)
}

// report prints outputs and diagnostics of res and tells whether any file
// failed.
func report(cmd *cobra.Command, res *driver.DirResult, s expandSettings) bool {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	bag := res.Bag()
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	if s.format == config.FormatJSON {
		if err := writeExpandJSON(out, res, s.outDir == "", maxDiagnostics); err != nil {
			fmt.Fprintf(errOut, "splice: %v\n", err)
			return true
		}
	} else {
		if s.outDir == "" {
			writeExpandText(out, res, s.format)
		}
		if bag.Len() > 0 {
			colored := useColor(cmd, os.Stderr)
			diagfmt.Pretty(errOut, bag, res.FileSet, diagfmt.PrettyOpts{
				Color:     colored,
				Context:   1,
				ShowNotes: true,
				Max:       maxDiagnostics,
			})
			if !quiet(cmd) {
				diagfmt.Summary(errOut, bag, colored)
			}
		}
	}

	if s.outDir != "" && !quiet(cmd) {
		written := 0
		for _, f := range res.Files {
			if f != nil && f.Text != nil {
				written++
			}
		}
		fmt.Fprintf(errOut, "wrote %d of %d files to %s\n", written, len(res.Files), s.outDir)
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		printStageTimings(errOut, res.Timings)
	}
	trace.Point(trace.FromContext(cmd.Context()), trace.ScopeDriver, "report", 0,
		fmt.Sprintf("%d files, %d errors", len(res.Files), res.ErrorCount()))
	return bag.HasErrors()
}

func writeExpandText(out io.Writer, res *driver.DirResult, format config.OutputFormat) {
	multi := len(res.Files) > 1
	for _, f := range res.Files {
		if f == nil {
			continue
		}
		switch format {
		case config.FormatTokens:
			if f.Output == nil {
				continue
			}
			if multi {
				fmt.Fprintf(out, "// %s\n", f.Path)
			}
			_ = diagfmt.FormatTreePretty(out, f.Output, res.FileSet)
		default:
			if f.Text == nil {
				continue
			}
			if multi {
				fmt.Fprintf(out, "// %s\n", f.Path)
			}
			_, _ = out.Write(f.Text)
		}
	}
}

type expandFileJSON struct {
	Path    string               `json:"path"`
	Changed bool                 `json:"changed"`
	Failed  bool                 `json:"failed"`
	Tokens  []diagfmt.TreeOutput `json:"tokens,omitempty"`
}

type expandJSON struct {
	Files       []expandFileJSON          `json:"files"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func writeExpandJSON(out io.Writer, res *driver.DirResult, withTokens bool, maxDiagnostics int) error {
	doc := expandJSON{Files: make([]expandFileJSON, 0, len(res.Files))}
	for _, f := range res.Files {
		if f == nil {
			continue
		}
		entry := expandFileJSON{Path: f.Path, Changed: f.Changed, Failed: f.Failed()}
		if withTokens && f.Output != nil {
			entry.Tokens = diagfmt.BuildTreeOutput(f.Output)
		}
		doc.Files = append(doc.Files, entry)
	}
	doc.Diagnostics = diagfmt.BuildDiagnosticsOutput(res.Bag(), res.FileSet, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeRelative,
		Max:              maxDiagnostics,
		IncludeNotes:     true,
	})
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// watchAndExpand re-expands selected files as they change until ctx ends.
func watchAndExpand(ctx context.Context, cmd *cobra.Command, target *expandTarget, s expandSettings, opts driver.Options) error {
	errOut := cmd.ErrOrStderr()
	if !quiet(cmd) {
		fmt.Fprintf(errOut, "watching %s (ctrl+c to stop)\n", target.path)
	}
	// во время наблюдения прогресс не рисуется
	s.ui = uiModeOff
	return driver.Watch(ctx, []string{target.path}, target.selected, func(changed []string) {
		var rels []string
		if target.isDir {
			for _, p := range changed {
				rel, err := filepath.Rel(target.root, p)
				if err == nil {
					rels = append(rels, filepath.ToSlash(rel))
				}
			}
		}
		res, err := expandOnce(ctx, cmd, target, s, opts, rels)
		if err != nil {
			fmt.Fprintf(errOut, "splice: %v\n", err)
			return
		}
		report(cmd, res, s)
	})
}
