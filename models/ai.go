package models

// ChatTurn is one entry of the chat history kept for the AI phraser.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatContext is the per-session side channel consumed by the AI phraser.
// It is cleared whenever the session is reset.
type ChatContext struct {
	History []ChatTurn `json:"history,omitempty"`
}
