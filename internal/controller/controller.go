// Package controller orchestrates the feed engine: it owns the active
// index, drives the loader's prefetching, gates bookmark toggles behind
// auth, and reconciles asynchronous results against current state.
package controller

import (
	"errors"
	"sync"

	"github.com/alshorts/shorts/internal/api"
	"github.com/alshorts/shorts/internal/bookmarks"
	"github.com/alshorts/shorts/internal/feed"
	"github.com/alshorts/shorts/internal/gesture"
	"github.com/alshorts/shorts/internal/session"
)

// Controller is the orchestration state machine. Apart from the queued
// effects (which session transitions may touch from a callback), all
// methods are meant to be called from a single goroutine - the Bubble
// Tea update loop in the app, the test body in tests.
type Controller struct {
	loader *feed.Loader
	marks  *bookmarks.Set
	sess   *session.Store
	limit  int
	active int

	mu     sync.Mutex
	queued []Effect
}

// New creates a Controller for the given starting language and page
// limit. It subscribes to the session store: logout clears the bookmark
// set immediately, login queues a bookmark refresh.
func New(lang feed.Language, limit int, sess *session.Store) *Controller {
	c := &Controller{
		loader: feed.NewLoader(lang),
		marks:  bookmarks.NewSet(),
		sess:   sess,
		limit:  limit,
	}
	if sess != nil {
		sess.Subscribe(c.onSessionChange)
	}
	return c
}

// onSessionChange handles auth transitions from the session store.
// Runs synchronously inside Login/Logout.
func (c *Controller) onSessionChange(s *session.Session) {
	if s == nil {
		// Logout: drop membership immediately, no network call.
		c.marks.Clear()
		return
	}
	c.mu.Lock()
	c.queued = append(c.queued, FetchBookmarks{})
	c.mu.Unlock()
}

// Drain returns effects queued by session transitions since the last
// call. The event loop drains after every transition it performs.
func (c *Controller) Drain() []Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.queued
	c.queued = nil
	return out
}

// Start resets feed and navigation state for lang and begins the first
// page load. Used for both initial startup and language switches; any
// fetch still in flight for the old language commits as a stale no-op.
func (c *Controller) Start(lang feed.Language) []Effect {
	c.loader.Reset(lang)
	c.active = 0

	req, ok := c.loader.Begin()
	if !ok {
		return nil
	}
	return []Effect{LoadPage{Req: req, Limit: c.limit}}
}

// ToggleLanguage switches the feed to the other language.
func (c *Controller) ToggleLanguage() []Effect {
	return c.Start(c.loader.Language().Toggle())
}

// RefreshBookmarks requests a bookmark refresh. Fails closed: when
// logged out it returns no effect, so no network call happens.
func (c *Controller) RefreshBookmarks() []Effect {
	if !c.Authenticated() {
		return nil
	}
	return []Effect{FetchBookmarks{}}
}

// HandleIntent processes one normalized gesture intent.
func (c *Controller) HandleIntent(in gesture.Intent) []Effect {
	switch in {
	case gesture.Next:
		return c.move(1)
	case gesture.Prev:
		return c.move(-1)
	case gesture.DoubleTap:
		return c.toggleCurrent()
	default:
		return nil
	}
}

// move clamp-adjusts the active index and triggers a prefetch when the
// result sits within the prefetch window of the loaded tail.
func (c *Controller) move(delta int) []Effect {
	idx := c.active + delta
	if idx < 0 {
		idx = 0
	}
	if max := c.loader.Len() - 1; max < 0 {
		idx = 0
	} else if idx > max {
		idx = max
	}
	c.active = idx
	return c.maybePrefetch()
}

// Prefetch triggers a page load if one is warranted for the current
// index. Exposed so the UI can retry after a failed load without
// synthesizing a gesture.
func (c *Controller) Prefetch() []Effect {
	return c.maybePrefetch()
}

// maybePrefetch starts a page load if one is warranted. Fire and
// forget: the UI shows a loading indicator while anything is in flight.
func (c *Controller) maybePrefetch() []Effect {
	if !c.loader.NeedMore(c.active) {
		return nil
	}
	req, ok := c.loader.Begin()
	if !ok {
		return nil
	}
	return []Effect{LoadPage{Req: req, Limit: c.limit}}
}

// toggleCurrent handles a double tap on the displayed item. A logged-out
// user gets AuthRequired instead of a network call. A toggle already in
// flight for the same item is a no-op until it settles.
func (c *Controller) toggleCurrent() []Effect {
	item, ok := c.loader.Item(c.active)
	if !ok {
		return nil
	}
	if !c.Authenticated() {
		return []Effect{AuthRequired{}}
	}
	if !c.marks.BeginToggle(item.ID) {
		return nil
	}
	return []Effect{ToggleBookmark{ID: item.ID}}
}

// CommitFeed applies a page-load result. Stale results (superseded by a
// language switch) are discarded. A fresh 401 destroys the session. A
// failed load leaves feed state unchanged apart from the loading flag;
// the page is retried on the next qualifying trigger.
func (c *Controller) CommitFeed(req feed.Request, items []feed.Item, err error) {
	fresh := c.loader.Commit(req, items, err)
	if !fresh {
		return
	}
	if err != nil {
		if errors.Is(err, api.ErrAuth) && c.sess != nil {
			c.sess.Logout()
		}
		return
	}
	if max := c.loader.Len() - 1; max >= 0 && c.active > max {
		c.active = max
	}
}

// CommitBookmarks applies a bookmark refresh result. Failures keep the
// last known membership; a 401 destroys the session.
func (c *Controller) CommitBookmarks(ids []string, err error) {
	if err != nil {
		if errors.Is(err, api.ErrAuth) && c.sess != nil {
			c.sess.Logout()
		}
		return
	}
	if !c.Authenticated() {
		// Refresh raced a logout; the authoritative set for a logged-out
		// session is empty and already in place.
		return
	}
	c.marks.Replace(ids)
}

// CommitToggle settles a toggle round trip. Membership is never inferred
// from the toggle outcome: the set is resynchronized with a refresh once
// the round trip settles, success or not. A 401 destroys the session
// instead (a refresh would just hit the same 401).
func (c *Controller) CommitToggle(id string, err error) []Effect {
	c.marks.EndToggle(id)
	if err != nil && errors.Is(err, api.ErrAuth) {
		if c.sess != nil {
			c.sess.Logout()
		}
		return nil
	}
	return c.RefreshBookmarks()
}

// CurrentItem returns the item at the active index, if any.
func (c *Controller) CurrentItem() (feed.Item, bool) { return c.loader.Item(c.active) }

// ActiveIndex returns the active item index.
func (c *Controller) ActiveIndex() int { return c.active }

// Items returns the loaded items.
func (c *Controller) Items() []feed.Item { return c.loader.Items() }

// Len returns the number of loaded items.
func (c *Controller) Len() int { return c.loader.Len() }

// IsLoading reports whether a page load is in flight.
func (c *Controller) IsLoading() bool { return c.loader.Loading() }

// IsExhausted reports whether the feed has no further pages.
func (c *Controller) IsExhausted() bool { return c.loader.Exhausted() }

// Language returns the current feed language.
func (c *Controller) Language() feed.Language { return c.loader.Language() }

// Bookmarked reports whether id is in the bookmark set.
func (c *Controller) Bookmarked(id string) bool { return c.marks.Contains(id) }

// BookmarkedIDs returns the bookmarked ids, sorted.
func (c *Controller) BookmarkedIDs() []string { return c.marks.IDs() }

// BookmarkCount returns the number of bookmarks.
func (c *Controller) BookmarkCount() int { return c.marks.Len() }

// ToggleBusy reports whether a toggle for id is in flight.
func (c *Controller) ToggleBusy(id string) bool { return c.marks.ToggleBusy(id) }

// Authenticated reports whether a session is active.
func (c *Controller) Authenticated() bool {
	return c.sess != nil && c.sess.Authenticated()
}
