package llm

import "strings"

// StripCodeFence returns the body of a markdown code block when content is
// wrapped in one, and the trimmed content otherwise.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	firstNewline := strings.Index(content, "\n")
	closing := strings.LastIndex(content, "```")
	if firstNewline == -1 || closing <= firstNewline {
		return content
	}
	return strings.TrimSpace(content[firstNewline+1 : closing])
}
