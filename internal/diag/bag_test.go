package diag

import (
	"testing"

	"splice/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	span := func(start uint32) source.Span { return source.Span{File: 0, Start: start, End: start + 1} }

	bag.Add(NewError(PasteEnvMissing, span(9), "late"))
	bag.Add(New(SevWarning, LexBadNumber, span(1), "warn"))
	bag.Add(NewError(LexUnknownChar, span(1), "err"))
	if bag.Add(NewError(LexUnknownChar, span(0), "dropped")) {
		t.Fatal("bag must refuse items beyond its limit")
	}

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "err" || items[1].Message != "warn" || items[2].Message != "late" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !bag.HasErrors() || bag.ErrorCount() != 2 || !bag.HasWarnings() {
		t.Fatal("error/warning accounting is wrong")
	}
}

func TestBagDedupAndMerge(t *testing.T) {
	a := NewBag(2)
	a.Add(NewError(PasteMalformed, source.Span{}, "x"))
	a.Add(NewError(PasteMalformed, source.Span{}, "x"))

	b := NewBag(0)
	b.Add(NewError(PasteInvalidIdent, source.Span{}, "y"))

	a.Merge(b)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("merge: len=%d cap=%d", a.Len(), a.Cap())
	}
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("dedup left %d items", a.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 2, End: 3}
	ReportError(r, PasteEnvMissing, sp, "no such env var").Emit()
	ReportError(r, PasteEnvMissing, sp, "no such env var").WithNote(sp, "again").Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if PasteEnvMissing.ID() != "PST3007" || PasteEnvMissing.Title() == "" {
		t.Fatalf("unexpected code id %q", PasteEnvMissing.ID())
	}
}
