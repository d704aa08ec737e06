package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/five82/folio/internal/books"
	"github.com/five82/folio/internal/logger"
	"github.com/five82/folio/internal/search"
)

var errNoSearcher = errors.New("no searcher configured")

// debounceCmd delivers the DebounceMsg once the quiet period has passed.
func debounceCmd(eff search.ScheduleDebounce) tea.Cmd {
	return tea.Tick(eff.After, func(time.Time) tea.Msg {
		return search.DebounceMsg{Generation: eff.Generation}
	})
}

// searchCmd runs one search under ctx and reports it as a ResolvedMsg.
func searchCmd(ctx context.Context, s books.Searcher, log *logger.Logger, eff search.StartSearch) tea.Cmd {
	return func() tea.Msg {
		ctx := logger.ContextWithRequestID(ctx, uuid.NewString())
		log.For(ctx).Debug().
			Uint64("request", eff.Request).
			Str("query", eff.Query).
			Msg("search started")

		if s == nil {
			return search.ResolvedMsg{Request: eff.Request, Query: eff.Query, Err: errNoSearcher}
		}
		found, err := s.Search(ctx, eff.Query)
		return search.ResolvedMsg{
			Request: eff.Request,
			Query:   eff.Query,
			Books:   found,
			Err:     err,
		}
	}
}
