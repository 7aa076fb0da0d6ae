// Package mcp exposes the mail store to agent tooling over MCP stdio,
// so tests and development environments can inspect trapped mail
// without shelling out.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kornelski/trapmail/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var listToolDef = mcp.NewTool("mail_list",
	mcp.WithDescription("List captured mail in arrival order, one summary per record"),
)

var fetchToolDef = mcp.NewTool("mail_fetch",
	mcp.WithDescription("Fetch one captured mail by its canonical file name"),
	mcp.WithString("file_name",
		mcp.Required(),
		mcp.Description("Canonical record file name, e.g. trapmail_1700000000000000_42_43.json"),
	),
)

var purgeToolDef = mcp.NewTool("mail_purge",
	mcp.WithDescription("Delete every captured mail in the store (cleanup between test runs)"),
)

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"mail_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"mail_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"mail_purge": {
		def:     purgeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge },
	},
}

// NewServer creates an MCP server with the trapmail tools registered.
func NewServer(st *store.Store, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"trapmail",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server using stdio transport.
func Run(st *store.Store, version string) error {
	return server.ServeStdio(NewServer(st, version))
}
