package format

import (
	"strings"
	"testing"
)

func TestAgentContext(t *testing.T) {
	body := `{
		"query": "redis caching",
		"results": [
			{"name": "uses_cache", "summary": "Added Redis caching for hot paths", "score": 0.91,
			 "file_path": "cache/redis.go", "change_type": "feature"},
			{"name": "fixed_bug", "text": "Fixed nil map panic", "score": 0.52, "severity": "high"}
		]
	}`

	got, ok := AgentContext([]byte(body))
	if !ok {
		t.Fatal("expected formatting to apply")
	}

	for _, want := range []string{
		`KNOWLEDGE CONTEXT FOR: "redis caching"`,
		"1. RELATIONSHIP: Uses Cache",
		"Added Redis caching for hot paths (File: cache/redis.go) [Type: feature]",
		"RELEVANCE: Score: 0.910",
		"2. RELATIONSHIP: Fixed Bug",
		"Fixed nil map panic [Severity: high]",
		"USAGE INSTRUCTIONS FOR AGENT:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestAgentContextFallsBackOnSummary(t *testing.T) {
	body := `{"results":[{"name":"x","text":"raw text only","score":0.1}]}`
	got, ok := AgentContext([]byte(body))
	if !ok {
		t.Fatal("expected formatting to apply")
	}
	if !strings.Contains(got, "raw text only") {
		t.Fatalf("text field not used as summary:\n%s", got)
	}
}

func TestAgentContextCleansNoise(t *testing.T) {
	body := `{"results":[{"name":"noisy","summary":"\ud83d\udd0d solution found","score":0.4}]}`
	got, ok := AgentContext([]byte(body))
	if !ok {
		t.Fatal("expected formatting to apply")
	}
	if strings.Contains(got, "\U0001F50D") {
		t.Fatal("emoji not stripped")
	}
	if !strings.Contains(got, "solution found") {
		t.Fatalf("content lost:\n%s", got)
	}
}

func TestAgentContextRedactsPrivateBlocks(t *testing.T) {
	body := `{"results":[{"name":"cred","summary":"use the API <private>token abc123</private> for auth","score":0.8}]}`
	got, ok := AgentContext([]byte(body))
	if !ok {
		t.Fatal("expected formatting to apply")
	}
	if strings.Contains(got, "abc123") {
		t.Fatal("private block leaked into agent context")
	}
	if !strings.Contains(got, "use the API") {
		t.Fatalf("public content lost:\n%s", got)
	}
}

func TestAgentContextRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "plain text"},
		{name: "no results", body: `{"results":[]}`},
		{name: "wrong shape", body: `{"results": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := AgentContext([]byte(tt.body)); ok {
				t.Fatal("expected formatting to decline")
			}
		})
	}
}
