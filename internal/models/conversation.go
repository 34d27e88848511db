package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in the wire format of the chat backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
