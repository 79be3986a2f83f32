package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/typodex/typodex/discovery"
	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/sigdoc"
)

// Server wraps an mcp.Server exposing search_by_type, search_by_name and
// describe_entry over an index.Index.
type Server struct {
	mcp  *mcp.Server
	ix   *index.Index
	disc *discovery.Discovery
	docs *sigdoc.InMemoryStore
}

// Info describes this server to MCP clients during initialize.
type Info struct {
	Name    string
	Version string
}

// New builds a Server over ix, using disc for the lexical fallback channel
// and docs for progressive-disclosure descriptions.
func New(ix *index.Index, disc *discovery.Discovery, docs *sigdoc.InMemoryStore, info Info) *Server {
	s := &Server{ix: ix, disc: disc, docs: docs}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: info.Name, Version: info.Version}, nil)

	// A tool's structured output must be a JSON object, so the two search
	// tools return their match list under "results".
	type entryList struct {
		Results []EntryResult `json:"results"`
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_by_type",
		Description: "Find entries whose signature unifies with a query type, e.g. \"int -> 'a -> 'a\".",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchByTypeParams) (*mcp.CallToolResult, entryList, error) {
		res, out, err := s.searchByType(ctx, req, args)
		return res, entryList{Results: out}, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_by_name",
		Description: "Find entries by remembered name or description text.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchByNameParams) (*mcp.CallToolResult, entryList, error) {
		res, out, err := s.searchByName(ctx, req, args)
		return res, entryList{Results: out}, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "describe_entry",
		Description: "Describe one entry's signature, and optionally its full documentation.",
	}, s.describeEntry)

	return s
}

// Run serves the MCP protocol over transport until ctx is cancelled or the
// transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// ServeStdio runs the server over stdio, the default transport for
// editor-integrated MCP clients.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
