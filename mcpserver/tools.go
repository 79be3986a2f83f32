package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/internal/typesyntax"
	"github.com/typodex/typodex/sigdoc"
)

// SearchByTypeParams are the arguments to the search_by_type tool.
type SearchByTypeParams struct {
	Type       string   `json:"type"`
	Pkgs       []string `json:"pkgs,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Exhaustive bool     `json:"exhaustive,omitempty"`
}

// SearchByNameParams are the arguments to the search_by_name tool.
type SearchByNameParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// DescribeEntryParams are the arguments to the describe_entry tool.
type DescribeEntryParams struct {
	Path string `json:"path"`
	Full bool   `json:"full,omitempty"`
}

// EntryResult is one match returned by search_by_type or search_by_name.
type EntryResult struct {
	Path      string  `json:"path"`
	Signature string  `json:"signature,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

func defaultLimit(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

func (s *Server) searchByType(ctx context.Context, req *mcp.CallToolRequest, args SearchByTypeParams) (*mcp.CallToolResult, []EntryResult, error) {
	ty, err := typesyntax.Parse(s.ix.Env(), args.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidType, err)
	}
	opts := index.FindOptions{Pkgs: args.Pkgs, Limit: defaultLimit(args.Limit)}
	find := s.ix.FindWith
	if args.Exhaustive {
		find = s.ix.Find
	}
	seq, err := find(ty, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mcpserver: %w", err)
	}
	var out []EntryResult
	for r := range seq {
		out = append(out, EntryResult{
			Path:      r.Path.String(),
			Signature: typesyntax.Render(s.ix.Env(), r.Type),
		})
	}
	return textResult(fmt.Sprintf("%d match(es) for %s", len(out), args.Type)), out, nil
}

func (s *Server) searchByName(ctx context.Context, req *mcp.CallToolRequest, args SearchByNameParams) (*mcp.CallToolResult, []EntryResult, error) {
	results, err := s.disc.SearchByName(ctx, args.Query, defaultLimit(args.Limit))
	if err != nil {
		return nil, nil, fmt.Errorf("mcpserver: %w", err)
	}
	out := make([]EntryResult, 0, len(results))
	for _, r := range results {
		out = append(out, EntryResult{Path: r.Path.String(), Score: r.Score})
	}
	return textResult(fmt.Sprintf("%d match(es) for %q", len(out), args.Query)), out, nil
}

func (s *Server) describeEntry(ctx context.Context, req *mcp.CallToolRequest, args DescribeEntryParams) (*mcp.CallToolResult, sigdoc.Doc, error) {
	level := sigdoc.DetailSummary
	if args.Full {
		level = sigdoc.DetailFull
	}
	doc, err := s.docs.DescribeEntry(args.Path, level)
	if err != nil {
		return nil, sigdoc.Doc{}, fmt.Errorf("mcpserver: %w", err)
	}
	return textResult(doc.Signature), doc, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}
