package domain

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged turn of a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// LastUserMessage returns the content of the most recent user message,
// or an empty string if there is none.
func LastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// BlacklistItem is a privacy redaction rule applied to outgoing text.
// Pattern is matched as a case-insensitive literal.
type BlacklistItem struct {
	Pattern     string
	Replacement string
}
