package llm

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"score": 1}`, want: `{"score": 1}`},
		{name: "surrounding whitespace", in: "  {}\n", want: `{}`},
		{name: "json fence", in: "```json\n{\"score\": 1}\n```", want: `{"score": 1}`},
		{name: "bare fence", in: "```\n{}\n```", want: `{}`},
		{name: "unterminated", in: "```json\n{}", want: "```json\n{}"},
		{name: "fence only", in: "```", want: "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
