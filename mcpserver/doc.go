// Package mcpserver exposes an index.Index as an MCP tool server with
// three tools: search_by_type, search_by_name, and describe_entry. It is
// built directly on github.com/modelcontextprotocol/go-sdk/mcp rather than
// a hand-rolled JSON-RPC dispatch table, since the SDK already implements
// the protocol.
package mcpserver
