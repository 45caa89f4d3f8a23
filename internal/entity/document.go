package entity

// ReservedPropertyKey is the positional metadata key hosts attach to parsed
// front matter. It never contributes property records.
const ReservedPropertyKey = "position"

// Document is the indexing input for a single note. The index copies what it
// needs and keeps no reference to the Document afterwards.
type Document struct {
	ID          string
	DisplayName string
	Path        string
	// Metadata is nil when no structural data is available for the document.
	Metadata *Metadata
}

// Metadata is the parsed structure of a document.
type Metadata struct {
	Headings   []HeadingOccurrence
	Tags       []TagOccurrence
	Properties []PropertyValue
}

type HeadingOccurrence struct {
	Text  string
	Level int
	Line  int
}

type TagOccurrence struct {
	Tag  string
	Line int
}

// PropertyValue is a single front-matter entry. Value is a scalar or a []any of
// scalars; only string scalars are indexed.
type PropertyValue struct {
	Name  string
	Value any
}

// StringValues returns the string scalars held by the property, expanding
// lists one level.
func (p PropertyValue) StringValues() []string {
	switch v := p.Value.(type) {
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
