// Package ui provides the terminal user interface for folio.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. It owns no search logic of its own:
// keystrokes become search.QueryChangedMsg and search.SubmitMsg values, the
// search reducer decides what happens, and the Effect it returns is turned
// into a tea.Cmd here:
//
//   - ScheduleDebounce: tea.Tick that delivers search.DebounceMsg
//   - StartSearch: cancels the previous request context and runs the
//     books.Searcher under a fresh one, delivering search.ResolvedMsg
//   - CancelSearch: cancels the in-flight request context
//
// Navigation between the result list and the detail page is held in a
// router.Router.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and Run
//   - commands.go: debounce and search commands
//   - header.go: status bar and command bar
//   - list.go: search input and result rows
//   - detail.go: detail page rendered into a viewport
//   - help.go: help overlay built from the key map
//   - keys.go: key bindings
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//
// # Focus
//
// In the list view either the query input or the result list has focus.
// While the input is focused every printable key edits the query, so list
// shortcuts such as j/k and ? only apply once focus has moved to the list
// with down or tab. The detail view takes all keys until esc, backspace or
// b returns to the list.
//
// # Themes
//
// Three palettes are available (Nightfox, Kanagawa, Slate). ctrl+t cycles
// them and the choice is persisted through the prefs package.
package ui
