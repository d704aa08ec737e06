package books

// VolumesResponse mirrors the payload returned by the volumes search endpoint.
// Items is absent when the provider finds nothing.
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is a single search hit.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the metadata fields folio consumes. Every field is
// optional upstream, so pointers distinguish "absent" from "empty".
type VolumeInfo struct {
	Title         *string     `json:"title"`
	Authors       []string    `json:"authors"`
	ImageLinks    *ImageLinks `json:"imageLinks"`
	Description   *string     `json:"description"`
	PublishedDate *string     `json:"publishedDate"`
	Publisher     *string     `json:"publisher"`
}

// ImageLinks holds cover image URLs.
type ImageLinks struct {
	Thumbnail *string `json:"thumbnail"`
}

// Book converts the transport volume into the record the UI renders.
func (v Volume) Book() Book {
	info := v.VolumeInfo
	b := Book{
		ID:            v.ID,
		Title:         deref(info.Title),
		Description:   deref(info.Description),
		PublishedDate: deref(info.PublishedDate),
		Publisher:     deref(info.Publisher),
	}
	if len(info.Authors) > 0 {
		b.Authors = append([]string(nil), info.Authors...)
	}
	if info.ImageLinks != nil {
		b.Thumbnail = deref(info.ImageLinks.Thumbnail)
	}
	return b
}

// Books converts every item of the response, preserving order.
func (r VolumesResponse) Books() []Book {
	if len(r.Items) == 0 {
		return nil
	}
	out := make([]Book, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.Book())
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
