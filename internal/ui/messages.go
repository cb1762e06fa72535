package ui

import (
	"github.com/alshorts/shorts/internal/api"
	"github.com/alshorts/shorts/internal/feed"
)

// Messages for Bubble Tea.

// feedLoadedMsg is sent when a feed page fetch settles. The request is
// carried along so the commit can be checked for staleness.
type feedLoadedMsg struct {
	req   feed.Request
	items []feed.Item
	err   error
}

// bookmarksMsg is sent when a bookmark refresh settles.
type bookmarksMsg struct {
	ids []string
	err error
}

// toggleDoneMsg is sent when a bookmark toggle round trip settles.
type toggleDoneMsg struct {
	id  string
	err error
}

// authDoneMsg is sent when a login or signup call settles.
type authDoneMsg struct {
	creds api.Credentials
	err   error
}

// heartDoneMsg ends the double-tap heart overlay. Purely visual; it is
// independent of the toggle round trip.
type heartDoneMsg struct{}

// animTickMsg advances the page-transition spring.
type animTickMsg struct{}
