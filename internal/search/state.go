package search

import (
	"strings"
	"time"

	"github.com/five82/folio/internal/books"
)

// Status summarizes where the current search stands.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DefaultDebounce is the quiet period after the last edit before a search runs.
const DefaultDebounce = 500 * time.Millisecond

// User-facing messages. Errors never reach the screen verbatim.
const (
	MessageNetworkFailure = "Connection failed. Check your network."
	MessageNoResults      = "No books found for this query."
)

// State is the whole search controller state. It is a value: every
// transition returns a new State plus the side effect the caller must run.
type State struct {
	Query    string
	Status   Status
	Results  []books.Book
	Message  string
	Debounce time.Duration

	generation uint64 // latest debounce window
	request    uint64 // authoritative search request
}

// New returns an idle State with the given debounce window.
func New(debounce time.Duration) State {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return State{Debounce: debounce}
}

// Loading reports whether the authoritative request is outstanding.
func (s State) Loading() bool {
	return s.Status == StatusLoading
}

// Generation returns the id of the newest debounce window.
func (s State) Generation() uint64 {
	return s.generation
}

// Request returns the id of the authoritative search request.
func (s State) Request() uint64 {
	return s.request
}

// IsCurrent reports whether a response for request would be applied.
func (s State) IsCurrent(request uint64) bool {
	return request != 0 && request == s.request && s.Status == StatusLoading
}

// SetQuery records an edit and restarts the debounce window. Repeating the
// current query is a no-op, matching an edit that changed nothing.
func (s State) SetQuery(text string) (State, Effect) {
	if text == s.Query {
		return s, nil
	}
	s.Query = text
	s.generation++
	return s, ScheduleDebounce{Generation: s.generation, After: s.debounce()}
}

// DebounceElapsed fires the search for generation if no newer edit arrived.
// A blank query clears results and error state without touching the network.
func (s State) DebounceElapsed(generation uint64) (State, Effect) {
	if generation != s.generation {
		return s, nil
	}
	if isBlank(s.Query) {
		return s.clear()
	}
	return s.RunSearch(s.Query)
}

// Submit runs the search immediately and drops the pending debounce window.
func (s State) Submit() (State, Effect) {
	if isBlank(s.Query) {
		return s.RunSearch(s.Query)
	}
	s.generation++
	return s.RunSearch(s.Query)
}

// RunSearch starts a search for query. Blank queries are ignored. Starting a
// search supersedes any request still in flight.
func (s State) RunSearch(query string) (State, Effect) {
	if isBlank(query) {
		return s, nil
	}
	s.request++
	s.Status = StatusLoading
	s.Message = ""
	return s, StartSearch{Request: s.request, Query: query}
}

// Resolve applies the outcome of request. Responses for superseded requests
// leave the state untouched.
func (s State) Resolve(request uint64, found []books.Book, err error) State {
	if !s.IsCurrent(request) {
		return s
	}
	switch {
	case err != nil:
		s.Status = StatusFailed
		s.Message = MessageNetworkFailure
		s.Results = nil
	case len(found) == 0:
		s.Status = StatusEmpty
		s.Message = MessageNoResults
		s.Results = nil
	default:
		s.Status = StatusSuccess
		s.Message = ""
		s.Results = append([]books.Book(nil), found...)
	}
	return s
}

func (s State) clear() (State, Effect) {
	var eff Effect
	if s.Status == StatusLoading {
		eff = CancelSearch{Request: s.request}
	}
	// Bumping the request id orphans any response still on its way.
	s.request++
	s.Status = StatusIdle
	s.Message = ""
	s.Results = nil
	return s, eff
}

func (s State) debounce() time.Duration {
	if s.Debounce <= 0 {
		return DefaultDebounce
	}
	return s.Debounce
}

func isBlank(q string) bool {
	return strings.TrimSpace(q) == ""
}
