// Package parser extracts the structure the entity index needs from a
// markdown note: headings, tags and front-matter properties.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/hoverlink/internal/entity"
)

var (
	frontMatterRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(?:(.*?)\r?\n)?---[ \t]*(?:\r?\n|\z)`)
	inlineTagRe   = regexp.MustCompile(`(?:^|[\s(\[,;])#([\p{L}\p{N}_/-]+)`)
	allDigitsRe   = regexp.MustCompile(`^[0-9]+$`)
)

// tagKeys are the front-matter keys whose values are also tag occurrences.
var tagKeys = map[string]struct{}{"tags": {}, "tag": {}}

// SplitFrontMatter separates the YAML front matter from the body. bodyLine is
// the number of lines that precede the body.
func SplitFrontMatter(data []byte) (fm []byte, body []byte, bodyLine int) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if loc == nil {
		return nil, data, 0
	}
	if loc[2] >= 0 {
		fm = data[loc[2]:loc[3]]
	}
	body = data[loc[1]:]
	return fm, body, bytes.Count(data[:loc[1]], []byte("\n"))
}

// Parse extracts metadata from a full markdown note. Front matter that fails
// to parse is reported as an error alongside a nil Metadata.
func Parse(source []byte) (*entity.Metadata, error) {
	fm, body, bodyLine := SplitFrontMatter(source)

	meta := &entity.Metadata{}
	if len(fm) > 0 {
		props, tags, err := parseFrontMatter(fm)
		if err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		meta.Properties = props
		meta.Tags = tags
	}

	headings, tags := parseBody(body, bodyLine)
	meta.Headings = headings
	meta.Tags = append(meta.Tags, tags...)
	return meta, nil
}

// Document builds the indexing input for a note. When the note cannot be
// parsed the returned document carries nil Metadata together with the error,
// so callers can still index the title.
func Document(id, displayName, path string, source []byte) (entity.Document, error) {
	doc := entity.Document{ID: id, DisplayName: displayName, Path: path}
	meta, err := Parse(source)
	if err != nil {
		return doc, err
	}
	doc.Metadata = meta
	return doc, nil
}

func parseFrontMatter(fm []byte) ([]entity.PropertyValue, []entity.TagOccurrence, error) {
	var data yaml.Node
	if err := yaml.Unmarshal(fm, &data); err != nil {
		return nil, nil, err
	}

	if data.Kind != yaml.DocumentNode || len(data.Content) == 0 {
		return nil, nil, nil
	}

	mapping := data.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, nil, nil
	}

	var (
		props []entity.PropertyValue
		tags  []entity.TagOccurrence
	)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valueNode := mapping.Content[i+1]

		props = append(props, entity.PropertyValue{
			Name:  keyNode.Value,
			Value: yamlValue(valueNode),
		})

		if _, ok := tagKeys[strings.ToLower(keyNode.Value)]; ok {
			tags = append(tags, frontMatterTags(valueNode)...)
		}
	}
	return props, tags, nil
}

// yamlValue converts a node into a scalar or a []any of scalars. Mappings and
// nested sequences have no scalar form and return nil.
func yamlValue(node *yaml.Node) any {
	switch node.Kind {
	case yaml.ScalarNode:
		return scalarValue(node)
	case yaml.SequenceNode:
		vals := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind == yaml.ScalarNode {
				vals = append(vals, scalarValue(child))
			}
		}
		return vals
	case yaml.AliasNode:
		if node.Alias != nil {
			return yamlValue(node.Alias)
		}
	}
	return nil
}

func scalarValue(node *yaml.Node) any {
	var v any
	if err := node.Decode(&v); err != nil {
		return node.Value
	}
	return v
}

// frontMatterTags reads tag occurrences from a tags value. Lines are file
// lines: the yaml line plus the opening delimiter.
func frontMatterTags(node *yaml.Node) []entity.TagOccurrence {
	var out []entity.TagOccurrence
	add := func(raw string, line int) {
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			tag := strings.TrimPrefix(part, "#")
			if tag == "" {
				continue
			}
			out = append(out, entity.TagOccurrence{Tag: tag, Line: line + 1})
		}
	}

	switch node.Kind {
	case yaml.ScalarNode:
		add(node.Value, node.Line)
	case yaml.SequenceNode:
		for _, child := range node.Content {
			if child.Kind == yaml.ScalarNode {
				add(child.Value, child.Line)
			}
		}
	}
	return out
}

func parseBody(source []byte, lineOffset int) ([]entity.HeadingOccurrence, []entity.TagOccurrence) {
	var (
		headings []entity.HeadingOccurrence
		tags     []entity.TagOccurrence
	)

	lineOf := func(pos int) int {
		return lineOffset + 1 + bytes.Count(source[:pos], []byte("\n"))
	}

	document := goldmark.DefaultParser().Parse(text.NewReader(source))
	ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}

			switch n := n.(type) {
			case *ast.Heading:
				content := strings.TrimSpace(string(n.Text(source)))
				if content == "" {
					return ast.WalkContinue, nil
				}
				line := 0
				if lines := n.Lines(); lines != nil && lines.Len() > 0 {
					line = lineOf(lines.At(0).Start)
				}
				headings = append(headings, entity.HeadingOccurrence{
					Text:  content,
					Level: n.Level,
					Line:  line,
				})
			case *ast.CodeSpan, *ast.Link, *ast.AutoLink:
				return ast.WalkSkipChildren, nil
			case *ast.Text:
				if prev, ok := n.PreviousSibling().(*ast.Text); ok && prev.Segment.Stop == n.Segment.Start {
					return ast.WalkContinue, nil
				}
				start, stop := textRun(n)
				for _, tag := range InlineTags(string(source[start:stop])) {
					tags = append(tags, entity.TagOccurrence{Tag: tag, Line: lineOf(start)})
				}
			}
			return ast.WalkContinue, nil
		},
	)

	return headings, tags
}

// textRun returns the source range of n joined with the text siblings that
// directly follow it. Inline delimiters such as "_" split one written word
// into several text nodes.
func textRun(n *ast.Text) (start, stop int) {
	start, stop = n.Segment.Start, n.Segment.Stop
	for next, ok := n.NextSibling().(*ast.Text); ok && next.Segment.Start == stop; next, ok = next.NextSibling().(*ast.Text) {
		stop = next.Segment.Stop
	}
	return start, stop
}

// InlineTags returns the #tags written in s, without their marker. Purely
// numeric tags are not tags.
func InlineTags(s string) []string {
	var out []string
	for _, match := range inlineTagRe.FindAllStringSubmatch(s, -1) {
		tag := strings.TrimRight(match[1], "/")
		if tag == "" || allDigitsRe.MatchString(tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}
