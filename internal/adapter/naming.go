package adapter

import (
	"strings"

	"github.com/zepai/memory-mcp/internal/descriptor"
)

// NamingFunc derives the adapted name for one endpoint. Injected so callers
// can impose their own naming scheme; names must be unique per surface.
type NamingFunc func(descriptor.Descriptor) string

// DefaultName builds a stable identifier from method and path: literal
// segments joined by underscores, placeholder segments dropped, the
// lowercased method appended.
//
//	GET  /stats                       -> stats_get
//	POST /ingest/text                 -> ingest_text_post
//	GET  /projects/{project_id}/stats -> projects_stats_get
//	GET  /                            -> root_get
func DefaultName(d descriptor.Descriptor) string {
	var parts []string
	for _, seg := range strings.Split(d.Path, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		parts = append(parts, sanitize(seg))
	}
	if len(parts) == 0 {
		parts = []string{"root"}
	}
	parts = append(parts, strings.ToLower(string(d.Method)))
	return strings.Join(parts, "_")
}

// sanitize maps a path segment to an identifier-safe token.
func sanitize(seg string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(seg) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
