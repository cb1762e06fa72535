package feed

// prefetchWindow is how close the active index may get to the tail
// before another page is requested.
const prefetchWindow = 2

// Request identifies one page fetch. The epoch is captured when the
// request is issued; a commit whose epoch no longer matches the loader's
// is stale (a language switch happened in between) and is discarded.
type Request struct {
	Epoch    int
	Page     int
	Language Language
}

// Loader accumulates feed items for one language, one page at a time.
//
// It is a plain state machine: Begin marks a page fetch as in flight and
// Commit applies (or discards) its result. The caller performs the actual
// network round trip between the two. All methods must be called from a
// single goroutine - in the app that is the Bubble Tea update loop.
type Loader struct {
	language  Language
	items     []Item
	seen      map[string]struct{}
	nextPage  int
	exhausted bool
	inflight  bool
	epoch     int
}

// NewLoader creates a Loader for the given language, cursor at page 1.
func NewLoader(lang Language) *Loader {
	return &Loader{
		language: lang,
		seen:     make(map[string]struct{}),
		nextPage: 1,
	}
}

// Reset clears all state and switches to lang. The epoch is bumped so
// any fetch still in flight for the old state commits as a no-op.
func (l *Loader) Reset(lang Language) {
	l.language = lang
	l.items = nil
	l.seen = make(map[string]struct{})
	l.nextPage = 1
	l.exhausted = false
	l.inflight = false
	l.epoch++
}

// Begin marks a page fetch as in flight and returns the request to
// perform. Returns false when a fetch is already pending or the feed is
// exhausted - at most one load is in flight at a time.
func (l *Loader) Begin() (Request, bool) {
	if l.inflight || l.exhausted {
		return Request{}, false
	}
	l.inflight = true
	return Request{Epoch: l.epoch, Page: l.nextPage, Language: l.language}, true
}

// Commit applies the result of a fetch started with Begin. Stale results
// (epoch mismatch after a Reset) are discarded entirely. A failed fetch
// only clears the in-flight flag; cursor and exhaustion are untouched so
// the page can be retried. An empty page (raw, or empty after dedup)
// marks the feed exhausted. Otherwise the new items are appended in
// response order, duplicates suppressed keeping the first occurrence,
// and the cursor advances by one.
//
// Returns false when the result was stale and discarded entirely.
func (l *Loader) Commit(req Request, items []Item, err error) bool {
	if req.Epoch != l.epoch {
		return false
	}
	l.inflight = false
	if err != nil {
		return true
	}

	added := 0
	for _, it := range items {
		if _, dup := l.seen[it.ID]; dup {
			continue
		}
		l.seen[it.ID] = struct{}{}
		l.items = append(l.items, it)
		added++
	}

	if added == 0 {
		l.exhausted = true
		return true
	}
	l.nextPage++
	return true
}

// NeedMore reports whether a prefetch should be triggered for the given
// active index: the index sits within the prefetch window of the tail
// (or the feed is still empty), nothing is in flight, and the feed is
// not exhausted.
func (l *Loader) NeedMore(activeIndex int) bool {
	if l.exhausted || l.inflight {
		return false
	}
	if len(l.items) == 0 {
		return true
	}
	return len(l.items)-1-activeIndex <= prefetchWindow
}

// Items returns the accumulated items. The returned slice is shared;
// callers must not mutate it.
func (l *Loader) Items() []Item { return l.items }

// Item returns the item at index i, if in range.
func (l *Loader) Item(i int) (Item, bool) {
	if i < 0 || i >= len(l.items) {
		return Item{}, false
	}
	return l.items[i], true
}

// Len returns the number of accumulated items.
func (l *Loader) Len() int { return len(l.items) }

// Language returns the language this loader is accumulating.
func (l *Loader) Language() Language { return l.language }

// NextPage returns the current cursor.
func (l *Loader) NextPage() int { return l.nextPage }

// Exhausted reports whether the feed has no further pages.
func (l *Loader) Exhausted() bool { return l.exhausted }

// Loading reports whether a page fetch is in flight.
func (l *Loader) Loading() bool { return l.inflight }
