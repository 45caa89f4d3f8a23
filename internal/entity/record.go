package entity

import "strings"

// Record is a back-reference from an index key to the document that
// contributed it.
type Record interface {
	SourceID() string
	Category() Category
	// Key is the normalized index key the record is stored under.
	Key() string
	// Link is the insertable link string for the record.
	Link() string
}

// NoteRecord is contributed once per document under its display name.
type NoteRecord struct {
	DocumentID  string
	DisplayName string
}

func (r NoteRecord) SourceID() string   { return r.DocumentID }
func (r NoteRecord) Category() Category { return Note }
func (r NoteRecord) Key() string        { return Normalize(r.DisplayName) }
func (r NoteRecord) Link() string       { return wikiLink(r.DisplayName, "") }

// HeadingRecord is contributed per heading occurrence.
type HeadingRecord struct {
	DocumentID  string
	DisplayName string
	Heading     string
	Line        int
}

func (r HeadingRecord) SourceID() string   { return r.DocumentID }
func (r HeadingRecord) Category() Category { return Heading }
func (r HeadingRecord) Key() string        { return Normalize(r.Heading) }
func (r HeadingRecord) Link() string       { return wikiLink(r.DisplayName, r.Heading) }

// TagRecord is contributed per tag occurrence. Tag never carries the leading
// '#'.
type TagRecord struct {
	DocumentID string
	Tag        string
	Line       int
}

func (r TagRecord) SourceID() string   { return r.DocumentID }
func (r TagRecord) Category() Category { return Tag }
func (r TagRecord) Key() string        { return Normalize(r.Tag) }
func (r TagRecord) Link() string       { return "#" + r.Tag }

// PropertyRecord is contributed per string value found in a document's
// properties.
type PropertyRecord struct {
	DocumentID  string
	DisplayName string
	Name        string
	Value       string
}

func (r PropertyRecord) SourceID() string   { return r.DocumentID }
func (r PropertyRecord) Category() Category { return Property }
func (r PropertyRecord) Key() string        { return Normalize(r.Value) }
func (r PropertyRecord) Link() string       { return wikiLink(r.DisplayName, "") }

func wikiLink(name, heading string) string {
	var b strings.Builder
	b.Grow(len(name) + len(heading) + 5)
	b.WriteString("[[")
	b.WriteString(name)
	if heading != "" {
		b.WriteByte('#')
		b.WriteString(heading)
	}
	b.WriteString("]]")
	return b.String()
}
