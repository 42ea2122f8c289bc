// Package types defines the wire types shared by the chat proxy, its
// upstream client and the stream relay.
package types

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a message with the given role and text.
func NewTextMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// IsKnownRole reports whether role is one of system, user or assistant.
func IsKnownRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}
