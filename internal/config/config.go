// Package config loads splice.toml, the per-project expansion settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
)

// FileName is the manifest looked up by Find.
const FileName = "splice.toml"

// OnError selects what a failed paste turns into.
type OnError string

const (
	// OnErrorDiag reports the failure as a diagnostic and emits nothing.
	OnErrorDiag OnError = "diag"
	// OnErrorTokens replaces the output with compile_error!("...").
	OnErrorTokens OnError = "tokens"
)

// OutputFormat selects how expanded streams are written.
type OutputFormat string

const (
	FormatText   OutputFormat = "text"
	FormatTokens OutputFormat = "tokens"
	FormatJSON   OutputFormat = "json"
)

// Config mirrors splice.toml.
type Config struct {
	Tool   ToolConfig   `toml:"tool"`
	Expand ExpandConfig `toml:"expand"`
	Output OutputConfig `toml:"output"`

	// Path is the manifest the config was read from; empty for Default.
	Path string `toml:"-"`
	// Root is the directory containing Path; globs are relative to it.
	Root string `toml:"-"`
}

type ToolConfig struct {
	Requires string `toml:"requires"`
}

type ExpandConfig struct {
	Include     []string `toml:"include"`
	Exclude     []string `toml:"exclude"`
	DocComments bool     `toml:"doc_comments"`
	OnError     OnError  `toml:"on_error"`
	Jobs        int      `toml:"jobs"`
}

type OutputConfig struct {
	Format        OutputFormat `toml:"format"`
	ShowInvisible bool         `toml:"show_invisible"`
	Dir           string       `toml:"dir"`
}

var (
	// ErrVersionMismatch is wrapped when [tool].requires rejects the running version.
	ErrVersionMismatch = errors.New("splice version does not satisfy [tool].requires")
	// ErrInvalid is wrapped for every other validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Default returns the settings used without a manifest.
func Default() Config {
	return Config{
		Expand: ExpandConfig{
			Include:     []string{"**/*.rs"},
			Exclude:     []string{"target/**"},
			DocComments: true,
			OnError:     OnErrorDiag,
		},
		Output: OutputConfig{Format: FormatText},
	}
}

// Find walks up from startDir looking for splice.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads path over Default. Keys absent from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	// пустой include в файле значит "ничего", а не "по умолчанию"
	if meta.IsDefined("expand", "include") && len(cfg.Expand.Include) == 0 {
		return Config{}, fmt.Errorf("%s: %w: [expand].include is empty", path, ErrInvalid)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the manifest above startDir, or returns Default
// rooted at startDir when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		cfg := Default()
		cfg.Root = startDir
		return cfg, nil
	}
	return Load(path)
}

// Validate checks enumerations, glob syntax and job count.
func (c *Config) Validate() error {
	switch c.Expand.OnError {
	case OnErrorDiag, OnErrorTokens:
	default:
		return fmt.Errorf("%w: [expand].on_error must be diag or tokens, got %q", ErrInvalid, c.Expand.OnError)
	}
	switch c.Output.Format {
	case FormatText, FormatTokens, FormatJSON:
	default:
		return fmt.Errorf("%w: [output].format must be text, tokens or json, got %q", ErrInvalid, c.Output.Format)
	}
	if c.Expand.Jobs < 0 {
		return fmt.Errorf("%w: [expand].jobs must not be negative", ErrInvalid)
	}
	for _, group := range [][]string{c.Expand.Include, c.Expand.Exclude} {
		for _, pat := range group {
			if !doublestar.ValidatePattern(pat) {
				return fmt.Errorf("%w: bad glob %q", ErrInvalid, pat)
			}
		}
	}
	return nil
}

// CheckVersion verifies [tool].requires against v. An empty constraint
// accepts everything.
func (c *Config) CheckVersion(v *semver.Version) error {
	req := strings.TrimSpace(c.Tool.Requires)
	if req == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(req)
	if err != nil {
		return fmt.Errorf("%w: [tool].requires %q: %w", ErrInvalid, req, err)
	}
	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("%w: %s (%s)", ErrVersionMismatch, v, strings.Join(msgs, "; "))
	}
	return nil
}

// JobCount resolves Jobs = 0 to GOMAXPROCS.
func (c *Config) JobCount() int {
	if c.Expand.Jobs > 0 {
		return c.Expand.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Selected reports whether rel (slash-separated, relative to Root) is
// matched by an include glob and by no exclude glob.
func (c *Config) Selected(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pat := range c.Expand.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	for _, pat := range c.Expand.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// Template is written by `splice init`.
const Template = `[tool]
# requires = ">= 0.1.0"

[expand]
include = ["**/*.rs"]
exclude = ["target/**"]
doc_comments = true
on_error = "diag"   # diag | tokens
jobs = 0            # 0 = number of CPUs

[output]
format = "text"     # text | tokens | json
show_invisible = false
dir = ""
`

// WriteTemplate creates dir/splice.toml; it refuses to overwrite.
func WriteTemplate(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s already exists", path)
		}
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(Template); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, f.Close()
}
