package feed

import (
	"errors"
	"fmt"
	"testing"
)

func makeItems(ids ...string) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: id, TitleHi: "शीर्षक " + id, TitleEn: "title " + id})
	}
	return items
}

func TestLoaderAppendsAndAdvancesCursor(t *testing.T) {
	l := NewLoader(LangHindi)

	req, ok := l.Begin()
	if !ok {
		t.Fatal("Begin refused initial load")
	}
	if req.Page != 1 || req.Language != LangHindi {
		t.Fatalf("unexpected request %+v", req)
	}

	if !l.Commit(req, makeItems("a", "b", "c"), nil) {
		t.Fatal("Commit discarded a fresh result")
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", l.Len())
	}
	if l.NextPage() != 2 {
		t.Errorf("cursor = %d, want 2", l.NextPage())
	}
	if l.Exhausted() {
		t.Error("feed marked exhausted after non-empty page")
	}
}

func TestLoaderDedupKeepsFirstOccurrence(t *testing.T) {
	l := NewLoader(LangHindi)

	req, _ := l.Begin()
	l.Commit(req, makeItems("a", "b"), nil)

	// Page 2 overlaps page 1 (e.g. items shifted between requests).
	req, _ = l.Begin()
	l.Commit(req, makeItems("b", "c"), nil)

	if l.Len() != 3 {
		t.Fatalf("expected 3 unique items, got %d", l.Len())
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if l.Items()[i].ID != id {
			t.Errorf("items[%d].ID = %q, want %q", i, l.Items()[i].ID, id)
		}
	}
}

func TestLoaderSamePageTwiceNeverDuplicates(t *testing.T) {
	l := NewLoader(LangEnglish)

	// Same payload committed twice, as a retry would produce.
	req, _ := l.Begin()
	l.Commit(req, makeItems("x", "y"), nil)
	req, _ = l.Begin()
	l.Commit(req, makeItems("x", "y"), nil)

	if l.Len() != 2 {
		t.Fatalf("expected 2 items after duplicate page, got %d", l.Len())
	}
	// Fully-deduplicated page counts as empty: feed is exhausted.
	if !l.Exhausted() {
		t.Error("expected exhausted after fully duplicate page")
	}
}

func TestLoaderCursorMonotonic(t *testing.T) {
	l := NewLoader(LangHindi)

	prev := l.NextPage()
	for i := 0; i < 5; i++ {
		req, ok := l.Begin()
		if !ok {
			t.Fatalf("Begin refused at page %d", prev)
		}
		l.Commit(req, makeItems(fmt.Sprintf("p%d", i)), nil)
		if l.NextPage() != prev+1 {
			t.Fatalf("cursor = %d, want %d", l.NextPage(), prev+1)
		}
		prev = l.NextPage()
	}
}

func TestLoaderEmptyPageExhausts(t *testing.T) {
	l := NewLoader(LangHindi)

	req, _ := l.Begin()
	l.Commit(req, makeItems("a"), nil)

	req, _ = l.Begin()
	l.Commit(req, nil, nil)

	if !l.Exhausted() {
		t.Fatal("expected exhausted after empty page")
	}
	if l.NextPage() != 2 {
		t.Errorf("cursor moved on empty page: %d", l.NextPage())
	}

	// Exhaustion is stable: no further loads start until a reset.
	if _, ok := l.Begin(); ok {
		t.Error("Begin started a load on an exhausted feed")
	}
	if l.NeedMore(0) {
		t.Error("NeedMore true on an exhausted feed")
	}

	l.Reset(LangEnglish)
	if l.Exhausted() || l.NextPage() != 1 || l.Len() != 0 {
		t.Error("Reset did not clear feed state")
	}
	if _, ok := l.Begin(); !ok {
		t.Error("Begin refused after reset")
	}
}

func TestLoaderSingleFlight(t *testing.T) {
	l := NewLoader(LangHindi)

	req, ok := l.Begin()
	if !ok {
		t.Fatal("first Begin refused")
	}
	if _, ok := l.Begin(); ok {
		t.Fatal("second Begin started while a load was in flight")
	}
	if !l.Loading() {
		t.Error("Loading false while a load is in flight")
	}

	l.Commit(req, makeItems("a"), nil)
	if l.Loading() {
		t.Error("Loading true after commit")
	}
	if _, ok := l.Begin(); !ok {
		t.Error("Begin refused after previous load settled")
	}
}

func TestLoaderFailureIsRetryableNoOp(t *testing.T) {
	l := NewLoader(LangHindi)

	req, _ := l.Begin()
	l.Commit(req, makeItems("a"), nil)

	req, _ = l.Begin()
	l.Commit(req, nil, errors.New("connection refused"))

	if l.Len() != 1 {
		t.Errorf("items changed on failed load: %d", l.Len())
	}
	if l.NextPage() != 2 {
		t.Errorf("cursor changed on failed load: %d", l.NextPage())
	}
	if l.Exhausted() {
		t.Error("failure marked feed exhausted")
	}
	if l.Loading() {
		t.Error("loading flag not cleared on failure")
	}

	// Same page is retried.
	req, ok := l.Begin()
	if !ok || req.Page != 2 {
		t.Fatalf("retry Begin = (%+v, %v), want page 2", req, ok)
	}
}

func TestLoaderStaleEpochDiscarded(t *testing.T) {
	l := NewLoader(LangHindi)

	// A Hindi page-1 fetch goes out...
	hiReq, _ := l.Begin()

	// ...and the user flips to English before it lands.
	l.Reset(LangEnglish)
	enReq, ok := l.Begin()
	if !ok {
		t.Fatal("Begin refused after language switch")
	}

	// English result lands first.
	l.Commit(enReq, makeItems("en-1", "en-2"), nil)
	// Stale Hindi result lands second and must be dropped.
	if l.Commit(hiReq, makeItems("hi-1", "hi-2"), nil) {
		t.Fatal("stale commit was applied")
	}

	if l.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", l.Len())
	}
	for _, it := range l.Items() {
		if it.ID == "hi-1" || it.ID == "hi-2" {
			t.Errorf("stale hindi item %q merged into english feed", it.ID)
		}
	}
	if l.Language() != LangEnglish {
		t.Errorf("language = %q, want en", l.Language())
	}
}

func TestLoaderStaleCommitDoesNotClearNewInflight(t *testing.T) {
	l := NewLoader(LangHindi)

	old, _ := l.Begin()
	l.Reset(LangEnglish)
	cur, _ := l.Begin()

	// Stale commit lands while the new fetch is still pending.
	l.Commit(old, makeItems("hi-1"), nil)
	if !l.Loading() {
		t.Fatal("stale commit cleared the in-flight flag of the new epoch")
	}

	l.Commit(cur, makeItems("en-1"), nil)
	if l.Len() != 1 || l.Items()[0].ID != "en-1" {
		t.Fatalf("unexpected items after settle: %+v", l.Items())
	}
}

func TestLoaderNeedMore(t *testing.T) {
	l := NewLoader(LangHindi)

	if !l.NeedMore(0) {
		t.Error("empty feed should need more")
	}

	req, _ := l.Begin()
	if l.NeedMore(0) {
		t.Error("NeedMore true while a load is in flight")
	}
	l.Commit(req, makeItems("a", "b", "c", "d", "e"), nil)

	tests := []struct {
		index int
		want  bool
	}{
		{0, false},
		{1, false},
		{2, true}, // within 2 of tail index 4
		{3, true},
		{4, true},
	}
	for _, tt := range tests {
		if got := l.NeedMore(tt.index); got != tt.want {
			t.Errorf("NeedMore(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestLanguageToggle(t *testing.T) {
	if LangHindi.Toggle() != LangEnglish {
		t.Error("hi should toggle to en")
	}
	if LangEnglish.Toggle() != LangHindi {
		t.Error("en should toggle to hi")
	}
}

func TestItemLanguageFallback(t *testing.T) {
	it := Item{TitleHi: "नमस्ते", TitleEn: ""}
	if it.Title(LangEnglish) != "नमस्ते" {
		t.Errorf("expected fallback to hindi title, got %q", it.Title(LangEnglish))
	}
	it = Item{SummaryEn: "summary"}
	if it.Summary(LangHindi) != "summary" {
		t.Errorf("expected fallback to english summary, got %q", it.Summary(LangHindi))
	}
}
