// Package gesture converts raw pointer input into discrete navigation
// intents, decoupled from the physical input device.
package gesture

import "time"

// Intent is a normalized user action derived from raw gesture input.
type Intent int

const (
	None Intent = iota
	Next
	Prev
	DoubleTap
)

func (i Intent) String() string {
	switch i {
	case Next:
		return "next"
	case Prev:
		return "prev"
	case DoubleTap:
		return "double-tap"
	default:
		return "none"
	}
}

// Default touch tuning.
const (
	DefaultSwipeThreshold  = 50.0
	DefaultDoubleTapWindow = 300 * time.Millisecond
)

// Navigator classifies vertical swipes and double taps.
//
// A swipe is the delta between the start and end of one touch sequence
// on the vertical axis: moving up (start above end by more than the
// threshold) means Next, moving down means Prev. Bounds are not enforced
// here - the consumer clamps, so the UI can still show edge feedback.
//
// Tap classification keeps only the most recent tap: a second tap on the
// same target within the window fires DoubleTap, and every tap restarts
// the window from its own timestamp.
type Navigator struct {
	threshold float64
	window    time.Duration

	startY   float64
	lastY    float64
	tracking bool

	lastTapAt     time.Time
	lastTapTarget string
}

// New creates a Navigator with the default threshold and tap window.
func New() *Navigator {
	return &Navigator{
		threshold: DefaultSwipeThreshold,
		window:    DefaultDoubleTapWindow,
	}
}

// NewWith creates a Navigator with explicit tuning, for tests and
// alternate input devices.
func NewWith(threshold float64, window time.Duration) *Navigator {
	return &Navigator{threshold: threshold, window: window}
}

// TouchStart begins a touch sequence at vertical position y.
func (n *Navigator) TouchStart(y float64) {
	n.startY = y
	n.lastY = y
	n.tracking = true
}

// TouchMove records movement within the current touch sequence.
func (n *Navigator) TouchMove(y float64) {
	if !n.tracking {
		return
	}
	n.lastY = y
}

// TouchEnd finishes the touch sequence and classifies it. Deltas within
// the threshold are a no-op (they may still become taps).
func (n *Navigator) TouchEnd() Intent {
	if !n.tracking {
		return None
	}
	n.tracking = false

	delta := n.startY - n.lastY
	switch {
	case delta > n.threshold:
		return Next
	case delta < -n.threshold:
		return Prev
	default:
		return None
	}
}

// Tap records a tap on the given target at the given time. Two taps on
// the same target within the window yield DoubleTap. The window is
// measured from the most recent tap, not the first: a slow tap does not
// expire the sequence, it restarts it.
func (n *Navigator) Tap(target string, at time.Time) Intent {
	intent := None
	if target != "" && target == n.lastTapTarget && at.Sub(n.lastTapAt) < n.window {
		intent = DoubleTap
	}
	n.lastTapAt = at
	n.lastTapTarget = target
	return intent
}
