package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/match"
	indexsvc "github.com/Paintersrp/hoverlink/internal/services/index"
)

type ResolveParams struct {
	Text       string `json:"text"`
	Offset     int    `json:"offset"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SpansParams struct {
	Text string `json:"text"`
}

type LookupParams struct {
	Category string `json:"category"`
	Key      string `json:"key"`
}

type RecordResult struct {
	Category string `json:"category"`
	Link     string `json:"link"`
	Source   string `json:"source"`
}

type SectionResult struct {
	Category string         `json:"category"`
	Total    int            `json:"total"`
	Records  []RecordResult `json:"records"`
}

type SpanResult struct {
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

type ResolveResult struct {
	Found    bool            `json:"found"`
	Span     *SpanResult     `json:"span,omitempty"`
	Sections []SectionResult `json:"sections,omitempty"`
}

type StatsResult struct {
	Documents   int            `json:"documents"`
	Keys        map[string]int `json:"keys"`
	Records     map[string]int `json:"records"`
	CachedSpans int            `json:"cached_spans"`
	LastRebuild string         `json:"last_rebuild,omitempty"`
}

func (s *Server) handleResolve(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ResolveParams
	if err := decode(req, &params); err != nil {
		return errorResponse("resolve", err)
	}
	if params.Offset < 0 || params.Offset > len(params.Text) {
		return errorResponse("resolve", fmt.Errorf("offset %d is outside the text", params.Offset))
	}

	found, ok, err := s.svc.Resolve(params.Text, params.Offset)
	if err != nil {
		return errorResponse("resolve", err)
	}
	if !ok {
		return jsonResponse(ResolveResult{})
	}

	popup, err := s.svc.Popup(found.Phrase, params.MaxResults)
	if err != nil {
		return errorResponse("resolve", err)
	}

	span := spanResult(match.Span{
		Phrase:   found.Phrase,
		Category: found.Category,
		Start:    found.Start,
		End:      found.End,
	})
	return jsonResponse(ResolveResult{
		Found:    true,
		Span:     &span,
		Sections: sectionResults(popup),
	})
}

func (s *Server) handleSelectSpans(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params SpansParams
	if err := decode(req, &params); err != nil {
		return errorResponse("select_spans", err)
	}

	spans, err := s.svc.SelectSpans(params.Text)
	if err != nil {
		return errorResponse("select_spans", err)
	}

	results := make([]SpanResult, 0, len(spans))
	for _, span := range spans {
		results = append(results, spanResult(span))
	}
	return jsonResponse(results)
}

func (s *Server) handleLookup(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params LookupParams
	if err := decode(req, &params); err != nil {
		return errorResponse("lookup", err)
	}

	category, err := entity.ParseCategory(params.Category)
	if err != nil {
		return errorResponse("lookup", err)
	}
	records, err := s.svc.Lookup(category, params.Key)
	if err != nil {
		return errorResponse("lookup", err)
	}
	return jsonResponse(recordResults(records))
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.svc.Stats()

	result := StatsResult{
		Documents:   stats.Documents,
		Keys:        make(map[string]int, len(entity.Priority)),
		Records:     make(map[string]int, len(entity.Priority)),
		CachedSpans: stats.CachedSpans,
	}
	for _, c := range entity.Priority {
		result.Keys[c.String()] = stats.Index.Keys[c]
		result.Records[c.String()] = stats.Index.Records[c]
	}
	if !stats.LastRebuild.IsZero() {
		result.LastRebuild = stats.LastRebuild.Format(time.RFC3339)
	}
	return jsonResponse(result)
}

func decode(req *mcp.CallToolRequest, v any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func spanResult(span match.Span) SpanResult {
	return SpanResult{
		Phrase:   span.Phrase,
		Category: span.Category.String(),
		Start:    span.Start,
		End:      span.End,
	}
}

func sectionResults(p indexsvc.Popup) []SectionResult {
	sections := make([]SectionResult, 0, len(p.Sections))
	for _, section := range p.Sections {
		sections = append(sections, SectionResult{
			Category: section.Category.String(),
			Total:    section.Total,
			Records:  recordResults(section.Records),
		})
	}
	return sections
}

func recordResults(records []entity.Record) []RecordResult {
	results := make([]RecordResult, 0, len(records))
	for _, record := range records {
		results = append(results, RecordResult{
			Category: record.Category().String(),
			Link:     record.Link(),
			Source:   record.SourceID(),
		})
	}
	return results
}

func jsonResponse(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// errorResponse reports a tool failure inside the result so the client can
// see it, rather than as a protocol error.
func errorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	response, marshalErr := jsonResponse(map[string]any{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true
	return response, nil
}
