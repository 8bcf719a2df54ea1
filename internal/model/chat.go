package model

import "time"

// ChatMessage is one turn of a conversation kept in the session store.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body of POST /api/v1/chat/message.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatReply is the composed answer for one chat message. Success is false
// when the external model was unavailable and the deterministic fallback
// prose was used; the property list and filters are the same either way.
type ChatReply struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Properties []MatchResult `json:"properties"`
	Filters    FilterSet     `json:"filters"`
}

// ChatResponse is what the HTTP layer returns: the reply plus session
// bookkeeping so the client can continue the conversation.
type ChatResponse struct {
	Success    bool          `json:"success"`
	Response   string        `json:"response"`
	Properties []MatchResult `json:"properties"`
	Filters    FilterSet     `json:"filters"`
	SessionID  string        `json:"session_id"`
	History    []ChatMessage `json:"conversation_history"`
}
