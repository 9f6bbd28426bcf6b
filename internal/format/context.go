// Package format renders raw search responses from the memory layer into
// agent-ready context text. The backend returns scored knowledge items as
// JSON; agents do better with a sectioned prompt that names each item's
// relationship, summary, and relevance.
package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/zepai/memory-mcp/internal/privacy"
)

// searchResponse is the subset of the backend search payload the formatter
// reads. Unknown fields are ignored.
type searchResponse struct {
	Query   string       `json:"query"`
	Results []searchItem `json:"results"`
}

type searchItem struct {
	Name       string  `json:"name"`
	Text       string  `json:"text"`
	Summary    string  `json:"summary"`
	Score      float64 `json:"score"`
	FilePath   string  `json:"file_path"`
	ChangeType string  `json:"change_type"`
	Severity   string  `json:"severity"`
}

var (
	nonASCII   = regexp.MustCompile(`[^\x00-\x7F]+`)
	blankLines = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// AgentContext formats one search response body into context text. ok is
// false when the body is not a parseable search response with results, in
// which case callers should relay the raw body instead.
func AgentContext(body []byte) (string, bool) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Results) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "KNOWLEDGE CONTEXT FOR: %q\n", resp.Query)
	b.WriteString(strings.Repeat("=", 60) + "\n\nRELEVANT KNOWLEDGE FOUND:\n")

	for i, item := range resp.Results {
		fmt.Fprintf(&b, "\n%d. RELATIONSHIP: %s\n", i+1, relationship(item.Name))
		fmt.Fprintf(&b, "   KNOWLEDGE: %s\n", summary(item))
		fmt.Fprintf(&b, "   RELEVANCE: Score: %.3f\n", item.Score)
	}

	b.WriteString(`
USAGE INSTRUCTIONS FOR AGENT:
- Use this knowledge to provide context-aware responses
- Reference specific relationships and patterns found
- Combine multiple knowledge items for comprehensive answers
- Mention that this information comes from past coding sessions
`)
	return b.String(), true
}

// relationship turns a snake_case item name into a readable title.
func relationship(name string) string {
	if name == "" {
		return "Unknown"
	}
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// summary builds the item description with its metadata suffixes.
func summary(item searchItem) string {
	s := item.Summary
	if s == "" {
		s = item.Text
	}
	s = clean(s)
	if item.FilePath != "" {
		s += fmt.Sprintf(" (File: %s)", item.FilePath)
	}
	if item.ChangeType != "" {
		s += fmt.Sprintf(" [Type: %s]", item.ChangeType)
	}
	if item.Severity != "" {
		s += fmt.Sprintf(" [Severity: %s]", item.Severity)
	}
	return s
}

// clean redacts private blocks, strips non-ASCII noise (emoji and the
// like), and collapses runs of blank lines the backend sometimes embeds in
// stored content.
func clean(s string) string {
	s = privacy.StripPrivateTags(s)
	s = nonASCII.ReplaceAllString(s, "")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
