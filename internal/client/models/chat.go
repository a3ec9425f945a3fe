package models

// Chat roles as the completion endpoint expects them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
