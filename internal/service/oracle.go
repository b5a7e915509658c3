package service

import "strings"

// stripCodeFence removes a markdown code fence wrapping an LLM reply.
// Models frequently return ```json ... ``` despite being asked for bare
// JSON. Prefers a ```json fence; falls back to the first plain ``` fence.
// Returns the input trimmed when no fence is present.
func stripCodeFence(text string) string {
	start := strings.Index(text, "```json")
	offset := len("```json")
	if start == -1 {
		start = strings.Index(text, "```")
		offset = len("```")
	}
	if start == -1 {
		return strings.TrimSpace(text)
	}

	body := text[start+offset:]
	end := strings.Index(body, "```")
	if end == -1 {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body[:end])
}
