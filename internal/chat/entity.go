// AngelaMos | 2026
// entity.go

package chat

import (
	"time"
)

// Message is one assistant exchange. UserID is nil for anonymous callers and
// becomes nil when the user is deleted.
type Message struct {
	ID          string    `db:"id"`
	UserID      *string   `db:"user_id"`
	UserMessage string    `db:"user_message"`
	AIResponse  string    `db:"ai_response"`
	Timestamp   time.Time `db:"timestamp"`
}
