package search

import (
	"time"

	"github.com/five82/folio/internal/books"
)

// Messages drive the reducer. They double as Bubble Tea messages.

// QueryChangedMsg reports the new contents of the query input.
type QueryChangedMsg struct {
	Text string
}

// DebounceMsg fires when a debounce window scheduled for Generation ends.
type DebounceMsg struct {
	Generation uint64
}

// SubmitMsg is the manual search trigger.
type SubmitMsg struct{}

// ResolvedMsg carries the outcome of the search identified by Request.
type ResolvedMsg struct {
	Request uint64
	Query   string
	Books   []books.Book
	Err     error
}

// Effect is a side effect the caller must perform after a transition.
type Effect interface {
	effect()
}

// ScheduleDebounce asks for a DebounceMsg{Generation} after the delay.
type ScheduleDebounce struct {
	Generation uint64
	After      time.Duration
}

// StartSearch asks for Query to be searched and the result delivered as a
// ResolvedMsg tagged with Request. Any earlier request may be cancelled.
type StartSearch struct {
	Request uint64
	Query   string
}

// CancelSearch asks for the in-flight request to be abandoned.
type CancelSearch struct {
	Request uint64
}

func (ScheduleDebounce) effect() {}
func (StartSearch) effect()      {}
func (CancelSearch) effect()     {}

// Update is the reducer: it applies msg to s and returns the follow-up
// effect, or nil. Unknown messages leave s unchanged.
func Update(s State, msg any) (State, Effect) {
	switch msg := msg.(type) {
	case QueryChangedMsg:
		return s.SetQuery(msg.Text)
	case DebounceMsg:
		return s.DebounceElapsed(msg.Generation)
	case SubmitMsg:
		return s.Submit()
	case ResolvedMsg:
		return s.Resolve(msg.Request, msg.Books, msg.Err), nil
	}
	return s, nil
}
