package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zepai/memory-mcp/internal/descriptor"
)

// toolHandler forwards a tool call to the backend endpoint: path parameters
// substitute into the endpoint path in segment order, the remaining
// arguments become the JSON body. Backend errors come back as tool errors
// with the backend's body intact.
func (b *Builder) toolHandler(d descriptor.Descriptor, params []string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body := make(map[string]any)
		if b.defaults != nil {
			for k, v := range b.defaults(d) {
				body[k] = v
			}
		}
		for k, v := range req.GetArguments() {
			body[k] = v
		}

		path := d.Path
		for _, p := range params {
			val, err := req.RequireString(p)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			path = strings.Replace(path, "{"+p+"}", url.PathEscape(val), 1)
			delete(body, p)
		}

		var payload []byte
		if len(body) > 0 {
			var err error
			payload, err = json.Marshal(body)
			if err != nil {
				return mcp.NewToolResultError("encode arguments: " + err.Error()), nil
			}
		}
		if b.maxBody > 0 && len(payload) > b.maxBody {
			return mcp.NewToolResultError(fmt.Sprintf("request body exceeds %d bytes", b.maxBody)), nil
		}

		respBody, status, err := b.client.Do(ctx, string(d.Method), path, payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status >= http.StatusBadRequest {
			return mcp.NewToolResultError(fmt.Sprintf("backend status %d: %s", status, respBody)), nil
		}

		if b.format != nil {
			if text, ok := b.format(d, respBody); ok {
				return mcp.NewToolResultText(text), nil
			}
		}
		return mcp.NewToolResultText(string(respBody)), nil
	}
}

// resourceHandler reads a parameterless backend endpoint.
func (b *Builder) resourceHandler(d descriptor.Descriptor) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return b.read(ctx, req.Params.URI, d.Path)
	}
}

// templateHandler maps a materialized resource URI back onto the endpoint
// path and reads it.
func (b *Builder) templateHandler(d descriptor.Descriptor) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		path, err := backendPath(d.Path, req.Params.URI)
		if err != nil {
			return nil, err
		}
		return b.read(ctx, req.Params.URI, path)
	}
}

func (b *Builder) read(ctx context.Context, uri, path string) ([]mcp.ResourceContents, error) {
	body, status, err := b.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("backend status %d: %s", status, body)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: resourceMIMEType,
			Text:     string(body),
		},
	}, nil
}

// backendPath substitutes the concrete segments of uri into the endpoint
// path. Segment order and literal segments are preserved unchanged; a URI
// whose shape does not match the template is rejected.
func backendPath(templatePath, uri string) (string, error) {
	concrete := strings.TrimPrefix(uri, uriScheme)
	if !strings.HasPrefix(concrete, "/") {
		concrete = "/" + concrete
	}

	want := strings.Split(templatePath, "/")
	got := strings.Split(concrete, "/")
	if len(want) != len(got) {
		return "", fmt.Errorf("resource uri %q does not match %q", uri, templatePath)
	}

	out := make([]string, len(want))
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") {
			if got[i] == "" {
				return "", fmt.Errorf("resource uri %q: empty value for %s", uri, seg)
			}
			out[i] = got[i]
			continue
		}
		if got[i] != seg {
			return "", fmt.Errorf("resource uri %q does not match %q", uri, templatePath)
		}
		out[i] = seg
	}
	return strings.Join(out, "/"), nil
}
