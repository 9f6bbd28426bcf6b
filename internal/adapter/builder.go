// Package adapter turns a backend endpoint collection into an MCP surface:
// tools for mutations, resources and resource templates for reads. Building
// a surface is pure partitioning and naming; all network I/O happens in the
// bound handlers at request time.
package adapter

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zepai/memory-mcp/internal/backend"
	"github.com/zepai/memory-mcp/internal/classify"
	"github.com/zepai/memory-mcp/internal/descriptor"
)

// uriScheme prefixes every adapted resource URI.
const uriScheme = "memory://"

// resourceMIMEType is what the backend speaks.
const resourceMIMEType = "application/json"

// ServerResourceTemplate pairs a resource template with its read handler,
// mirroring how server.ServerTool and server.ServerResource pair theirs.
type ServerResourceTemplate struct {
	Template mcp.ResourceTemplate
	Handler  server.ResourceTemplateHandlerFunc
}

// Surface is the adapted form of one endpoint collection. Every
// non-excluded descriptor appears exactly once across Tools, Resources, and
// Templates; Excluded is kept for diagnostics only.
type Surface struct {
	Tools     []server.ServerTool
	Resources []server.ServerResource
	Templates []ServerResourceTemplate
	Excluded  []descriptor.Descriptor
}

// Names returns the sorted adapted names across the whole surface.
func (s *Surface) Names() []string {
	names := make([]string, 0, len(s.Tools)+len(s.Resources)+len(s.Templates))
	for _, t := range s.Tools {
		names = append(names, t.Tool.Name)
	}
	for _, r := range s.Resources {
		names = append(names, r.Resource.Name)
	}
	for _, rt := range s.Templates {
		names = append(names, rt.Template.Name)
	}
	sort.Strings(names)
	return names
}

// ResultFormatter optionally rewrites a successful tool response body into
// text better suited for an agent. Returning false leaves the raw body in
// place.
type ResultFormatter func(d descriptor.Descriptor, body []byte) (string, bool)

// DefaultArgsFunc supplies default tool arguments per endpoint; explicit
// call arguments always win.
type DefaultArgsFunc func(d descriptor.Descriptor) map[string]any

// Builder constructs adapted surfaces. Safe for concurrent use; Build only
// reads immutable descriptor data and allocates its output.
type Builder struct {
	client   *backend.Client
	naming   NamingFunc
	format   ResultFormatter
	defaults DefaultArgsFunc
	maxBody  int
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithNaming replaces the default name derivation.
func WithNaming(fn NamingFunc) Option {
	return func(b *Builder) { b.naming = fn }
}

// WithFormatter installs a tool-result formatter.
func WithFormatter(fn ResultFormatter) Option {
	return func(b *Builder) { b.format = fn }
}

// WithDefaultArgs installs per-endpoint default tool arguments.
func WithDefaultArgs(fn DefaultArgsFunc) Option {
	return func(b *Builder) { b.defaults = fn }
}

// WithMaxBodyBytes caps the JSON body a tool call may forward. Zero means
// no cap.
func WithMaxBodyBytes(n int) Option {
	return func(b *Builder) { b.maxBody = n }
}

// NewBuilder creates a Builder forwarding to the given backend.
func NewBuilder(client *backend.Client, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		client: client,
		naming: DefaultName,
		logger: logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build classifies every descriptor and partitions the collection into an
// adapted surface. It fails on the first malformed route or name collision;
// a partially-built surface is never returned.
func (b *Builder) Build(descs []descriptor.Descriptor) (*Surface, error) {
	surface := &Surface{}
	seen := make(map[string]descriptor.Descriptor, len(descs))

	for _, d := range descs {
		out, err := classify.Classify(d)
		if err != nil {
			return nil, err
		}

		if out.Kind == classify.Excluded {
			surface.Excluded = append(surface.Excluded, d)
			b.logger.Debug("endpoint excluded from adapted surface",
				"method", d.Method, "path", d.Path)
			continue
		}

		name := b.naming(d)
		if prev, ok := seen[name]; ok {
			return nil, &DuplicateToolNameError{
				Name:       name,
				FirstPath:  fmt.Sprintf("%s %s", prev.Method, prev.Path),
				SecondPath: fmt.Sprintf("%s %s", d.Method, d.Path),
			}
		}
		seen[name] = d

		switch out.Kind {
		case classify.Tool:
			// Outcomes only carry params for templates; mutating
			// endpoints can be parameterized too.
			params, perr := classify.PathParams(d.Path)
			if perr != nil {
				return nil, perr
			}
			surface.Tools = append(surface.Tools, server.ServerTool{
				Tool:    b.tool(name, d, params),
				Handler: b.toolHandler(d, params),
			})
		case classify.Resource:
			surface.Resources = append(surface.Resources, server.ServerResource{
				Resource: mcp.NewResource(resourceURI(d.Path), name,
					mcp.WithResourceDescription(describe(d)),
					mcp.WithMIMEType(resourceMIMEType),
				),
				Handler: b.resourceHandler(d),
			})
		case classify.ResourceTemplate:
			surface.Templates = append(surface.Templates, ServerResourceTemplate{
				Template: mcp.NewResourceTemplate(templateURI(d.Path), name,
					mcp.WithTemplateDescription(describe(d)),
					mcp.WithTemplateMIMEType(resourceMIMEType),
				),
				Handler: b.templateHandler(d),
			})
		}
	}

	return surface, nil
}

// tool builds the MCP tool declaration: path parameters become required
// string arguments, the endpoint's declared schema is carried through as-is.
func (b *Builder) tool(name string, d descriptor.Descriptor, params []string) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(describe(d))}

	for _, p := range params {
		opts = append(opts, mcp.WithString(p,
			mcp.Required(),
			mcp.Description("Path parameter "+p),
		))
	}

	for _, key := range sortedKeys(d.Schema) {
		if slices.Contains(params, key) {
			continue
		}
		prop := d.Schema[key]
		var po []mcp.PropertyOption
		if prop.Description != "" {
			po = append(po, mcp.Description(prop.Description))
		}
		if prop.Required {
			po = append(po, mcp.Required())
		}
		switch prop.Type {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(key, po...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(key, po...))
		case "array":
			opts = append(opts, mcp.WithArray(key, po...))
		case "object":
			opts = append(opts, mcp.WithObject(key, po...))
		default:
			opts = append(opts, mcp.WithString(key, po...))
		}
	}

	return mcp.NewTool(name, opts...)
}

func describe(d descriptor.Descriptor) string {
	if d.Summary != "" {
		return d.Summary
	}
	return fmt.Sprintf("%s %s on the memory layer", d.Method, d.Path)
}

// resourceURI derives the static resource URI for a parameterless path.
func resourceURI(path string) string {
	if path == "/" {
		return uriScheme + "root"
	}
	return uriScheme + strings.TrimPrefix(path, "/")
}

// templateURI keeps the path's {param} placeholders, which double as
// RFC 6570 expansion tokens in the same positional order.
func templateURI(path string) string {
	return uriScheme + strings.TrimPrefix(path, "/")
}

func sortedKeys(schema descriptor.SchemaRef) []string {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
