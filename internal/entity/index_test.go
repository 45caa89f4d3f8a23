package entity

import (
	"reflect"
	"testing"
)

func machineLearningDoc() Document {
	return Document{
		ID:          "notes/Machine Learning Basics.md",
		DisplayName: "Machine Learning Basics",
		Metadata: &Metadata{
			Headings: []HeadingOccurrence{
				{Text: "Gradient Descent", Level: 2, Line: 5},
				{Text: "Overfitting", Level: 2, Line: 12},
			},
			Tags: []TagOccurrence{
				{Tag: "#ml", Line: 3},
				{Tag: "project-x", Line: 4},
			},
			Properties: []PropertyValue{
				{Name: "author", Value: "Alice"},
				{Name: "aliases", Value: []any{"ML Basics", 42, "intro"}},
				{Name: "year", Value: 2024},
				{Name: ReservedPropertyKey, Value: "ignored value"},
			},
		},
	}
}

func TestIndexDocumentPopulatesAllTables(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(machineLearningDoc())

	if !idx.HasTitle("machine learning basics") {
		t.Fatalf("expected title to be indexed case-insensitively")
	}
	if !idx.HasTitle("  Machine Learning Basics ") {
		t.Fatalf("expected title lookup to trim whitespace")
	}
	if !idx.HasHeading("gradient descent") {
		t.Fatalf("expected heading to be indexed")
	}
	if !idx.HasTag("ml") || idx.HasTag("#ml") {
		t.Fatalf("expected tag to be indexed without its leading marker")
	}
	if !idx.HasProperty("alice") || !idx.HasProperty("ml basics") || !idx.HasProperty("intro") {
		t.Fatalf("expected string property values to be indexed")
	}
	if idx.HasProperty("42") || idx.HasProperty("2024") {
		t.Fatalf("expected non-string property values to be ignored")
	}
	if idx.HasProperty("ignored value") {
		t.Fatalf("expected reserved positional key to be skipped")
	}
}

func TestIndexDocumentRespectsOptions(t *testing.T) {
	idx := NewIndex(IndexOptions{MinMatchLength: 1})
	idx.IndexDocument(machineLearningDoc())

	if !idx.HasTitle("Machine Learning Basics") {
		t.Fatalf("expected titles to be indexed regardless of options")
	}
	if idx.HasHeading("Gradient Descent") || idx.HasTag("ml") || idx.HasProperty("Alice") {
		t.Fatalf("expected disabled categories to stay empty, got %+v", idx.Stats())
	}
}

func TestIndexDocumentPropertyMinLength(t *testing.T) {
	idx := NewIndex(IndexOptions{Properties: true, MinMatchLength: 4})
	idx.IndexDocument(Document{
		ID:          "a.md",
		DisplayName: "a",
		Metadata: &Metadata{Properties: []PropertyValue{
			{Name: "status", Value: "wip"},
			{Name: "owner", Value: "Alice"},
		}},
	})

	if idx.HasProperty("wip") {
		t.Fatalf("expected value shorter than minimum length to be skipped")
	}
	if !idx.HasProperty("alice") {
		t.Fatalf("expected value at or above minimum length to be indexed")
	}
}

func TestIndexDocumentWithoutMetadataIndexesTitleOnly(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(Document{ID: "x.md", DisplayName: "Loose Note"})

	stats := idx.Stats()
	if stats.Documents != 1 || stats.Records[Note] != 1 {
		t.Fatalf("expected a single title record, got %+v", stats)
	}
	for _, c := range []Category{Heading, Tag, Property} {
		if stats.Records[c] != 0 {
			t.Fatalf("expected no %s records, got %d", c, stats.Records[c])
		}
	}
}

func TestRemoveDocumentClearsTitle(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	doc := machineLearningDoc()
	idx.IndexDocument(doc)

	if !idx.HasTitle(doc.DisplayName) {
		t.Fatalf("expected title after indexing")
	}

	idx.RemoveDocument(doc.ID)
	if idx.HasTitle(doc.DisplayName) {
		t.Fatalf("expected title to be gone after removal")
	}
	if idx.Contains(doc.ID) {
		t.Fatalf("expected document to be forgotten after removal")
	}
}

func TestRemoveDocumentIsIdempotent(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(machineLearningDoc())
	idx.IndexDocument(Document{ID: "other.md", DisplayName: "Other", Metadata: &Metadata{
		Tags: []TagOccurrence{{Tag: "ml", Line: 1}},
	}})

	idx.RemoveDocument("notes/Machine Learning Basics.md")
	first := idx.Clone()

	if n := idx.RemoveDocument("notes/Machine Learning Basics.md"); n != 0 {
		t.Fatalf("expected second removal to remove nothing, removed %d", n)
	}
	if !reflect.DeepEqual(first, idx) {
		t.Fatalf("expected index to be unchanged by the second removal")
	}
}

func TestRemoveDocumentLeavesNoTrace(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(machineLearningDoc())
	idx.RemoveDocument("notes/Machine Learning Basics.md")
	idx.IndexDocument(Document{ID: "b.md", DisplayName: "Unrelated", Metadata: &Metadata{
		Headings: []HeadingOccurrence{{Text: "Intro", Line: 1}},
	}})

	want := NewIndex(DefaultIndexOptions())
	want.IndexDocument(Document{ID: "b.md", DisplayName: "Unrelated", Metadata: &Metadata{
		Headings: []HeadingOccurrence{{Text: "Intro", Line: 1}},
	}})

	if !reflect.DeepEqual(idx, want) {
		t.Fatalf("expected index to hold only the unrelated document\n got: %+v\nwant: %+v", idx.Stats(), want.Stats())
	}
}

func TestRemoveDocumentKeepsOtherRecordOrder(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	for _, id := range []string{"a.md", "b.md", "c.md"} {
		idx.IndexDocument(Document{ID: id, DisplayName: id, Metadata: &Metadata{
			Tags: []TagOccurrence{{Tag: "shared", Line: 1}},
		}})
	}

	idx.RemoveDocument("b.md")

	got := idx.LookupTag("shared")
	if len(got) != 2 || got[0].DocumentID != "a.md" || got[1].DocumentID != "c.md" {
		t.Fatalf("expected a.md then c.md, got %+v", got)
	}
}

func TestLookupTagReturnsOccurrencesInInsertionOrder(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(Document{ID: "one.md", DisplayName: "One", Metadata: &Metadata{
		Tags: []TagOccurrence{{Tag: "project-x", Line: 4}},
	}})
	idx.IndexDocument(Document{ID: "two.md", DisplayName: "Two", Metadata: &Metadata{
		Tags: []TagOccurrence{{Tag: "Project-X", Line: 10}},
	}})

	got := idx.LookupTag("project-x")
	want := []TagRecord{
		{DocumentID: "one.md", Tag: "project-x", Line: 4},
		{DocumentID: "two.md", Tag: "Project-X", Line: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LookupTag = %+v, want %+v", got, want)
	}
}

func TestLookupPropertyAfterRemoval(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(Document{ID: "A", DisplayName: "A", Metadata: &Metadata{
		Properties: []PropertyValue{{Name: "author", Value: "Alice"}},
	}})

	if got := idx.LookupProperty("alice"); len(got) != 1 || got[0].Name != "author" {
		t.Fatalf("expected author property record, got %+v", got)
	}

	idx.RemoveDocument("A")
	if got := idx.LookupProperty("alice"); len(got) != 0 {
		t.Fatalf("expected no property records after removal, got %+v", got)
	}
}

func TestIndexDoesNotDeduplicate(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	doc := Document{ID: "dup.md", DisplayName: "Dup"}
	idx.IndexDocument(doc)
	idx.IndexDocument(doc)

	if got := idx.LookupTitle("dup"); len(got) != 2 {
		t.Fatalf("expected duplicate records to be appended, got %d", len(got))
	}

	idx.RemoveDocument(doc.ID)
	if idx.HasTitle("dup") {
		t.Fatalf("expected removal to drop every duplicate")
	}
}

func TestRenameMovesTitleKey(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(Document{ID: "n.md", DisplayName: "Old Name"})

	idx.RemoveDocument("n.md")
	idx.IndexDocument(Document{ID: "n.md", DisplayName: "New Name"})

	if idx.HasTitle("old name") {
		t.Fatalf("expected old title key to be dropped")
	}
	if got := idx.LookupTitle("new name"); len(got) != 1 || got[0].DocumentID != "n.md" {
		t.Fatalf("expected renamed title under new key, got %+v", got)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(Document{ID: "a.md", DisplayName: "Alpha"})

	got := idx.LookupTitle("alpha")
	got[0].DisplayName = "mutated"

	if again := idx.LookupTitle("alpha"); again[0].DisplayName != "Alpha" {
		t.Fatalf("expected lookup result to be a copy, got %+v", again)
	}
}

func TestRecordInvariantKeysMatch(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(machineLearningDoc())

	for _, c := range Priority {
		for key := range keysOf(idx, c) {
			for _, r := range idx.Lookup(c, key) {
				if r.Key() != key {
					t.Fatalf("%s record %+v stored under %q normalizes to %q", c, r, key, r.Key())
				}
			}
		}
	}
}

func keysOf(idx *Index, c Category) map[string]struct{} {
	keys := make(map[string]struct{})
	switch c {
	case Note:
		for k := range idx.titles {
			keys[k] = struct{}{}
		}
	case Heading:
		for k := range idx.headings {
			keys[k] = struct{}{}
		}
	case Tag:
		for k := range idx.tags {
			keys[k] = struct{}{}
		}
	case Property:
		for k := range idx.properties {
			keys[k] = struct{}{}
		}
	}
	return keys
}

func TestCloneIsIndependent(t *testing.T) {
	idx := NewIndex(DefaultIndexOptions())
	idx.IndexDocument(machineLearningDoc())

	clone := idx.Clone()
	idx.RemoveDocument("notes/Machine Learning Basics.md")

	if !clone.HasTitle("machine learning basics") {
		t.Fatalf("expected clone to keep its records")
	}
	if idx.HasTitle("machine learning basics") {
		t.Fatalf("expected original to drop its records")
	}
}

func TestLinkStrings(t *testing.T) {
	tests := []struct {
		record Record
		want   string
	}{
		{NoteRecord{DocumentID: "a", DisplayName: "Machine Learning"}, "[[Machine Learning]]"},
		{HeadingRecord{DocumentID: "a", DisplayName: "Machine Learning", Heading: "Loss Functions"}, "[[Machine Learning#Loss Functions]]"},
		{TagRecord{DocumentID: "a", Tag: "project-x"}, "#project-x"},
		{PropertyRecord{DocumentID: "a", DisplayName: "Machine Learning", Name: "author", Value: "Alice"}, "[[Machine Learning]]"},
	}

	for _, tt := range tests {
		if got := tt.record.Link(); got != tt.want {
			t.Fatalf("%s Link() = %q, want %q", tt.record.Category(), got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"note":       Note,
		"Titles":     Note,
		"headings":   Heading,
		"TAG":        Tag,
		"properties": Property,
	}
	for in, want := range tests {
		got, err := ParseCategory(in)
		if err != nil {
			t.Fatalf("ParseCategory(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseCategory(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseCategory("link"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}
