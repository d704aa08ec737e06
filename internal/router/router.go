// Package router tracks which screen is showing: the result list or the
// detail view for one selected book.
package router

import "github.com/five82/folio/internal/books"

// View identifies the active screen.
type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	if v == ViewDetail {
		return "detail"
	}
	return "list"
}

// Router is the navigation state. The zero value shows the list.
type Router struct {
	selected *books.Book
}

// Select switches to the detail view for b.
func (r Router) Select(b books.Book) Router {
	r.selected = &b
	return r
}

// Clear returns to the list view.
func (r Router) Clear() Router {
	r.selected = nil
	return r
}

// View reports the active screen.
func (r Router) View() View {
	if r.selected != nil {
		return ViewDetail
	}
	return ViewList
}

// Selection returns the selected book, if any.
func (r Router) Selection() (books.Book, bool) {
	if r.selected == nil {
		return books.Book{}, false
	}
	return *r.selected, true
}
