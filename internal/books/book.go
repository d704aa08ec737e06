package books

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Fallback texts shown when the provider omits a field.
const (
	FallbackTitle         = "Unknown title"
	FallbackAuthors       = "Unknown author(s)"
	FallbackDescription   = "No synopsis available."
	FallbackPublishedDate = "Publication date unknown."
	FallbackPublisher     = "Publisher unknown."

	PlaceholderListThumbnail   = "https://via.placeholder.com/64x96.png?text=No+Cover"
	PlaceholderDetailThumbnail = "https://via.placeholder.com/128x193.png?text=No+Cover"
)

// Book is the subset of provider metadata folio displays. Empty strings mean
// the provider did not send the field.
type Book struct {
	ID            string
	Title         string
	Authors       []string
	Thumbnail     string
	Description   string
	PublishedDate string
	Publisher     string
}

var stripHTML = bluemonday.StrictPolicy()

// DisplayTitle returns the title or the fallback text.
func (b Book) DisplayTitle() string {
	return orFallback(b.Title, FallbackTitle)
}

// DisplayAuthors joins author names with ", ". Absent or empty author lists
// render as the fallback text, never as an empty string.
func (b Book) DisplayAuthors() string {
	names := make([]string, 0, len(b.Authors))
	for _, name := range b.Authors {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return FallbackAuthors
	}
	return strings.Join(names, ", ")
}

// ListThumbnail returns the cover URL used in list rows.
func (b Book) ListThumbnail() string {
	return orFallback(b.Thumbnail, PlaceholderListThumbnail)
}

// DetailThumbnail returns the cover URL used in the detail view.
func (b Book) DetailThumbnail() string {
	return orFallback(b.Thumbnail, PlaceholderDetailThumbnail)
}

// DisplayDescription returns the synopsis with provider HTML markup removed.
func (b Book) DisplayDescription() string {
	if strings.TrimSpace(b.Description) == "" {
		return FallbackDescription
	}
	text := b.Description
	// Keep paragraph breaks before the policy drops the tags.
	for _, tag := range []string{"<br>", "<br/>", "<br />", "</p>"} {
		text = strings.ReplaceAll(text, tag, "\n")
	}
	text = strings.TrimSpace(html.UnescapeString(stripHTML.Sanitize(text)))
	return orFallback(text, FallbackDescription)
}

// DisplayPublishedDate returns the publication date or the fallback text.
func (b Book) DisplayPublishedDate() string {
	return orFallback(b.PublishedDate, FallbackPublishedDate)
}

// DisplayPublisher returns the publisher or the fallback text.
func (b Book) DisplayPublisher() string {
	return orFallback(b.Publisher, FallbackPublisher)
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
