package adapter

import "github.com/mark3labs/mcp-go/server"

// NewMCPServer creates the MCP server and registers the whole surface on it.
func NewMCPServer(name, version string, s *Surface) *server.MCPServer {
	srv := server.NewMCPServer(name, version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)
	Register(srv, s)
	return srv
}

// Register adds every tool, resource, and resource template of the surface
// to an MCP server.
func Register(srv *server.MCPServer, s *Surface) {
	for _, t := range s.Tools {
		srv.AddTool(t.Tool, t.Handler)
	}
	for _, r := range s.Resources {
		srv.AddResource(r.Resource, r.Handler)
	}
	for _, rt := range s.Templates {
		srv.AddResourceTemplate(rt.Template, rt.Handler)
	}
}
