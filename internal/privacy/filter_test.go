package privacy

import "testing"

func TestStripPrivateTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no tags", input: "plain content", want: "plain content"},
		{name: "single block", input: "before <private>secret</private> after", want: "before  after"},
		{name: "multiline block", input: "keep\n<private>line1\nline2</private>\nrest", want: "keep\n\nrest"},
		{name: "multiple blocks", input: "<private>a</private>x<private>b</private>", want: "x"},
		{name: "unclosed tag left alone", input: "text <private>open", want: "text <private>open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripPrivateTags(tt.input); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasOnlyPrivateContent(t *testing.T) {
	if !HasOnlyPrivateContent("  <private>all secret</private>  ") {
		t.Fatal("expected only-private content")
	}
	if HasOnlyPrivateContent("visible <private>hidden</private>") {
		t.Fatal("visible content must count")
	}
}
