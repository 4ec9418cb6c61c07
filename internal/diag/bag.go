package diag

import (
	"cmp"
	"math"
	"slices"
)

// Bag collects diagnostics up to a limit. Count methods accept a nil Bag.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag returns a Bag holding at most limit diagnostics; limit <= 0 means
// no practical limit.
func NewBag(limit int) *Bag {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	return &Bag{items: make([]Diagnostic, 0, min(limit, 16)), limit: limit}
}

// Add stores d and reports false once the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the limit.
func (b *Bag) Cap() int { return b.limit }

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items returns the stored diagnostics. The slice aliases the Bag.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

func (b *Bag) count(atLeast Severity) int {
	if b == nil {
		return 0
	}
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= atLeast {
			n++
		}
	}
	return n
}

func (b *Bag) ErrorCount() int { return b.count(SevError) }

func (b *Bag) HasErrors() bool { return b.count(SevError) > 0 }

// HasWarnings reports whether any diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool { return b.count(SevWarning) > 0 }

// Merge appends other, raising the limit when both do not fit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.limit = max(b.limit, len(b.items)+len(other.items))
	b.items = append(b.items, other.items...)
}

// Sort orders by file and position, most severe first, then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeated diagnostics, keeping the first of each.
func (b *Bag) Dedup() {
	seen := make(map[identity]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		id := d.identity()
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
		return false
	})
}
