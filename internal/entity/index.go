// Package entity holds the in-memory entity index built from a vault: note
// titles, headings, tags and property values, each keyed by a normalized
// string and mapped to the records that contributed it.
package entity

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// IndexOptions controls which categories a document contributes when it is
// indexed. Titles are always indexed.
type IndexOptions struct {
	Headings   bool
	Tags       bool
	Properties bool
	// MinMatchLength is the minimum rune length of an indexed property value.
	MinMatchLength int
}

// DefaultIndexOptions enables every category.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{Headings: true, Tags: true, Properties: true, MinMatchLength: 1}
}

type sourced interface {
	SourceID() string
}

// table maps a normalized key to records in insertion order. Keys never hold
// an empty list.
type table[R sourced] map[string][]R

func (t table[R]) add(key string, r R) {
	t[key] = append(t[key], r)
}

func (t table[R]) has(key string) bool {
	_, ok := t[Normalize(key)]
	return ok
}

func (t table[R]) lookup(key string) []R {
	records, ok := t[Normalize(key)]
	if !ok {
		return nil
	}
	return append([]R(nil), records...)
}

// remove drops every record contributed by id and returns how many were
// removed.
func (t table[R]) remove(id string) int {
	removed := 0
	for key, records := range t {
		kept := records[:0]
		for _, r := range records {
			if r.SourceID() == id {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == 0 {
			delete(t, key)
			continue
		}
		// Zero the tail so dropped records are not retained by the backing array.
		clear(records[len(kept):])
		t[key] = kept
	}
	return removed
}

func (t table[R]) records() int {
	n := 0
	for _, records := range t {
		n += len(records)
	}
	return n
}

func (t table[R]) clone() table[R] {
	out := make(table[R], len(t))
	for key, records := range t {
		out[key] = append([]R(nil), records...)
	}
	return out
}

// Index is the four-way entity index. It is not safe for concurrent mutation;
// callers serialize IndexDocument and RemoveDocument.
type Index struct {
	opts       IndexOptions
	titles     table[NoteRecord]
	headings   table[HeadingRecord]
	tags       table[TagRecord]
	properties table[PropertyRecord]
	// docs counts how many times each document id has been indexed since its
	// last removal.
	docs map[string]int
}

// NewIndex constructs an empty index.
func NewIndex(opts IndexOptions) *Index {
	if opts.MinMatchLength < 1 {
		opts.MinMatchLength = 1
	}
	return &Index{
		opts:       opts,
		titles:     make(table[NoteRecord]),
		headings:   make(table[HeadingRecord]),
		tags:       make(table[TagRecord]),
		properties: make(table[PropertyRecord]),
		docs:       make(map[string]int),
	}
}

// Options returns the options the index was built with.
func (idx *Index) Options() IndexOptions {
	return idx.opts
}

// IndexDocument appends the records extracted from doc. It does not remove
// prior records for the same document; callers that reindex remove first.
func (idx *Index) IndexDocument(doc Document) {
	if idx == nil || doc.ID == "" {
		return
	}

	idx.docs[doc.ID]++

	if key := Normalize(doc.DisplayName); key != "" {
		idx.titles.add(key, NoteRecord{DocumentID: doc.ID, DisplayName: doc.DisplayName})
	}

	meta := doc.Metadata
	if meta == nil {
		return
	}

	if idx.opts.Headings {
		for _, h := range meta.Headings {
			key := Normalize(h.Text)
			if key == "" {
				continue
			}
			idx.headings.add(key, HeadingRecord{
				DocumentID:  doc.ID,
				DisplayName: doc.DisplayName,
				Heading:     strings.TrimSpace(h.Text),
				Line:        h.Line,
			})
		}
	}

	if idx.opts.Tags {
		for _, tag := range meta.Tags {
			text := strings.TrimPrefix(strings.TrimSpace(tag.Tag), "#")
			key := Normalize(text)
			if key == "" {
				continue
			}
			idx.tags.add(key, TagRecord{DocumentID: doc.ID, Tag: text, Line: tag.Line})
		}
	}

	if idx.opts.Properties {
		for _, prop := range meta.Properties {
			if prop.Name == ReservedPropertyKey {
				continue
			}
			for _, value := range prop.StringValues() {
				key := Normalize(value)
				if key == "" || utf8.RuneCountInString(key) < idx.opts.MinMatchLength {
					continue
				}
				idx.properties.add(key, PropertyRecord{
					DocumentID:  doc.ID,
					DisplayName: doc.DisplayName,
					Name:        prop.Name,
					Value:       strings.TrimSpace(value),
				})
			}
		}
	}
}

// RemoveDocument drops every record contributed by id from all four tables.
// Removing an unknown id is a no-op.
func (idx *Index) RemoveDocument(id string) int {
	if idx == nil || id == "" {
		return 0
	}

	delete(idx.docs, id)
	return idx.titles.remove(id) +
		idx.headings.remove(id) +
		idx.tags.remove(id) +
		idx.properties.remove(id)
}

// Contains reports whether a document id currently has indexed state.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.docs[id]
	return ok
}

// Documents returns the ids of every indexed document, sorted.
func (idx *Index) Documents() []string {
	ids := make([]string, 0, len(idx.docs))
	for id := range idx.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (idx *Index) LookupTitle(name string) []NoteRecord       { return idx.titles.lookup(name) }
func (idx *Index) LookupHeading(text string) []HeadingRecord  { return idx.headings.lookup(text) }
func (idx *Index) LookupTag(text string) []TagRecord          { return idx.tags.lookup(text) }
func (idx *Index) LookupProperty(text string) []PropertyRecord { return idx.properties.lookup(text) }

func (idx *Index) HasTitle(name string) bool    { return idx.titles.has(name) }
func (idx *Index) HasHeading(text string) bool  { return idx.headings.has(text) }
func (idx *Index) HasTag(text string) bool      { return idx.tags.has(text) }
func (idx *Index) HasProperty(text string) bool { return idx.properties.has(text) }

// Has reports whether the table for c holds key.
func (idx *Index) Has(c Category, key string) bool {
	switch c {
	case Note:
		return idx.HasTitle(key)
	case Heading:
		return idx.HasHeading(key)
	case Tag:
		return idx.HasTag(key)
	case Property:
		return idx.HasProperty(key)
	default:
		return false
	}
}

// Lookup returns the records stored under key in the table for c.
func (idx *Index) Lookup(c Category, key string) []Record {
	switch c {
	case Note:
		return toRecords(idx.LookupTitle(key))
	case Heading:
		return toRecords(idx.LookupHeading(key))
	case Tag:
		return toRecords(idx.LookupTag(key))
	case Property:
		return toRecords(idx.LookupProperty(key))
	default:
		return nil
	}
}

// Keys returns the number of distinct keys in the table for c.
func (idx *Index) Keys(c Category) int {
	switch c {
	case Note:
		return len(idx.titles)
	case Heading:
		return len(idx.headings)
	case Tag:
		return len(idx.tags)
	case Property:
		return len(idx.properties)
	default:
		return 0
	}
}

// Stats summarizes index contents.
type Stats struct {
	Documents int
	Keys      map[Category]int
	Records   map[Category]int
}

func (idx *Index) Stats() Stats {
	return Stats{
		Documents: len(idx.docs),
		Keys: map[Category]int{
			Note:     len(idx.titles),
			Heading:  len(idx.headings),
			Tag:      len(idx.tags),
			Property: len(idx.properties),
		},
		Records: map[Category]int{
			Note:     idx.titles.records(),
			Heading:  idx.headings.records(),
			Tag:      idx.tags.records(),
			Property: idx.properties.records(),
		},
	}
}

// Clone produces an independent copy of the index.
func (idx *Index) Clone() *Index {
	if idx == nil {
		return nil
	}

	docs := make(map[string]int, len(idx.docs))
	for id, n := range idx.docs {
		docs[id] = n
	}

	return &Index{
		opts:       idx.opts,
		titles:     idx.titles.clone(),
		headings:   idx.headings.clone(),
		tags:       idx.tags.clone(),
		properties: idx.properties.clone(),
		docs:       docs,
	}
}

func toRecords[R Record](records []R) []Record {
	if len(records) == 0 {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
