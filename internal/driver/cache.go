package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/btree"
	"github.com/vmihailenco/msgpack/v5"

	"splice/internal/diag"
	"splice/internal/source"
	"splice/internal/version"
)

// cacheSchema is bumped whenever CachePayload changes shape.
const cacheSchema uint16 = 1

// Digest is a cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// CacheKey hashes file content together with everything else that shapes
// the printed output.
func CacheKey(content []byte, fingerprint string) Digest {
	h := sha256.New()
	_, _ = h.Write(content)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(fingerprint))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (o *Options) fingerprint() string {
	return fmt.Sprintf("splice=%s;schema=%d;docs=%t;errtok=%t;invisible=%t",
		version.Version, cacheSchema, o.DocComments, o.ErrorTokens, o.ShowInvisible)
}

// CachePayload is what one expanded file leaves on disk.
type CachePayload struct {
	Schema      uint16
	Text        []byte
	Changed     bool
	Broken      bool
	Env         map[string]EnvDep
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic of the cached file with file-relative spans.
type CachedDiagnostic struct {
	Code     uint16
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
	Notes    []CachedNote
}

type CachedNote struct {
	Start, End uint32
	Msg        string
}

func newPayload(res *ExpandResult) *CachePayload {
	p := &CachePayload{
		Schema:  cacheSchema,
		Text:    res.Text,
		Changed: res.Changed,
		Broken:  res.Failed(),
		Env:     res.EnvDeps,
	}
	for _, d := range res.Bag.Items() {
		cd := CachedDiagnostic{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// DiskCache stores CachePayloads as msgpack files named by their Digest.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>/expand (~/.cache when unset).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app, "expand"))
}

// NewDiskCache uses dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, key.String()+".mp")
}

// Put writes payload under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(tmp.Name(), c.pathFor(key))
}

// Get reads the entry for key. A missing entry is (false, nil).
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return true, nil
}

// Valid reports whether p was written by this schema and every env var it
// depended on still resolves the same way.
func (p *CachePayload) Valid(lookup func(string) (string, bool)) bool {
	if p.Schema != cacheSchema {
		return false
	}
	for name, dep := range p.Env {
		v, ok := lookup(name)
		if ok != dep.Set || v != dep.Value {
			return false
		}
	}
	return true
}

// restore fills res from a valid entry for key. Unreadable or stale
// entries count as misses.
func (c *DiskCache) restore(key Digest, res *ExpandResult, lookup func(string) (string, bool)) bool {
	var p CachePayload
	if ok, err := c.Get(key, &p); err != nil || !ok || !p.Valid(lookup) {
		return false
	}
	id := res.File.ID
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: id, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: id, Start: n.Start, End: n.End}, n.Msg)
		}
		res.Bag.Add(d)
	}
	res.Text = p.Text
	res.Changed = p.Changed
	res.Cached = true
	return true
}

// Prune keeps the keep most recently written entries and removes the rest.
// It returns the number of removed entries.
func (c *DiskCache) Prune(keep int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	// ключ: время записи, затем имя, чтобы совпадения по mtime не терялись
	var byAge btree.Map[string, string]
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		byAge.Set(fmt.Sprintf("%020d/%s", info.ModTime().UnixNano(), e.Name()), e.Name())
	}

	excess := byAge.Len() - max(keep, 0)
	removed := 0
	var firstErr error
	byAge.Scan(func(_ string, name string) bool {
		if removed >= excess {
			return false
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && firstErr == nil {
			firstErr = err
		}
		removed++
		return true
	})
	return removed, firstErr
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
