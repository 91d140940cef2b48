// AngelaMos | 2026
// dto.go

package chat

import (
	"time"
)

type SendRequest struct {
	Message string `json:"message"`
}

// MessageResponse omits id when the exchange could not be stored.
type MessageResponse struct {
	ID          string    `json:"id,omitempty"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

type ClearResponse struct {
	Message string `json:"message"`
}

func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		UserMessage: m.UserMessage,
		AIResponse:  m.AIResponse,
		Timestamp:   m.Timestamp,
	}
}

func ToMessageResponseList(messages []Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, ToMessageResponse(&messages[i]))
	}
	return responses
}
