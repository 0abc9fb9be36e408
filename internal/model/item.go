package model

import "github.com/volatiletech/null/v8"

// DefaultImage is the placeholder image path used when an item has no image.
const DefaultImage = "./static/images/box.jpg"

// Item is a single inventory record.
//
// Msg is only set while Deleted is true; it serializes as null otherwise.
type Item struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Price   int64       `json:"price"`
	Image   string      `json:"image"`
	Deleted bool        `json:"deleted"`
	Msg     null.String `json:"msg"`
}

// ItemPatch holds the fields of a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Name  *string
	Price *int64
	Image *string
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Image == nil
}

// ImageOrDefault returns image, or DefaultImage when image is empty.
func ImageOrDefault(image string) string {
	if image == "" {
		return DefaultImage
	}
	return image
}

// Filter restricts item listings by their deleted flag.
type Filter int

// Item listing filters.
const (
	FilterAll Filter = iota
	FilterCurrent
	FilterDeleted
)

// ParseFilter maps the filter query parameter to a Filter.
// Unrecognized values fall back to FilterAll.
func ParseFilter(s string) Filter {
	switch s {
	case "current":
		return FilterCurrent
	case "deleted":
		return FilterDeleted
	default:
		return FilterAll
	}
}

func (f Filter) String() string {
	switch f {
	case FilterCurrent:
		return "current"
	case FilterDeleted:
		return "deleted"
	default:
		return "all"
	}
}
