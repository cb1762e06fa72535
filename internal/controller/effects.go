package controller

import "github.com/alshorts/shorts/internal/feed"

// Effect is a side effect the controller wants performed. The controller
// itself never touches the network; the presentation layer (or the
// headless runner) executes effects asynchronously and feeds results
// back through the Commit methods.
type Effect interface {
	effect()
}

// LoadPage asks for one feed page fetch. Req carries the epoch tag that
// CommitFeed uses to discard results superseded by a language switch.
type LoadPage struct {
	Req   feed.Request
	Limit int
}

// FetchBookmarks asks for a bookmark refresh from the server.
type FetchBookmarks struct{}

// ToggleBookmark asks for a bookmark toggle round trip for one item.
type ToggleBookmark struct {
	ID string
}

// AuthRequired signals that a personalized action was attempted while
// logged out; the UI should open its auth-required flow.
type AuthRequired struct{}

func (LoadPage) effect()       {}
func (FetchBookmarks) effect() {}
func (ToggleBookmark) effect() {}
func (AuthRequired) effect()   {}
