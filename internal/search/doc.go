// Package search holds the search controller: the query, the debounce
// window, the loading and error flags and the current result list.
//
// # Model
//
// State is a plain value updated by a reducer. Each transition returns the
// next State and, when something has to happen outside the reducer, an
// Effect:
//
//   - ScheduleDebounce: deliver DebounceMsg{Generation} after the delay
//   - StartSearch: run the query and deliver ResolvedMsg{Request, ...}
//   - CancelSearch: abandon the request still in flight
//
// The reducer never performs I/O or reads the clock, so the whole flow is
// testable by feeding messages to Update.
//
// # Debounce
//
// Every edit bumps the generation. Only the DebounceMsg carrying the newest
// generation starts a search, so a burst of edits faster than the window
// produces exactly one request for the final text. When the window closes
// on a blank query the results and message are cleared without a request.
//
// # Ordering
//
// Every search gets a fresh request id and becomes authoritative. Resolve
// ignores responses for any other id, so a slow older response can never
// overwrite the outcome of a newer search. Callers are expected to cancel
// the superseded request's context when they see the next StartSearch.
//
// # Outcomes
//
//   - error (transport failure or non-2xx): StatusFailed, MessageNetworkFailure
//   - no items: StatusEmpty, MessageNoResults
//   - items: StatusSuccess with the results replaced wholesale
package search
