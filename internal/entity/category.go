package entity

import (
	"fmt"
	"strings"
)

// Category is the kind of entity a phrase matched.
type Category int

const (
	Note Category = iota
	Heading
	Tag
	Property
)

// Priority is the order in which categories are consulted when a phrase
// matches more than one index.
var Priority = [...]Category{Note, Heading, Tag, Property}

var categoryNames = [...]string{
	Note:     "note",
	Heading:  "heading",
	Tag:      "tag",
	Property: "property",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a category name (case-insensitive, singular or plural)
// back to its Category.
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "note", "notes", "title", "titles":
		return Note, nil
	case "heading", "headings":
		return Heading, nil
	case "tag", "tags":
		return Tag, nil
	case "property", "properties":
		return Property, nil
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// Normalize returns the lookup key for s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
