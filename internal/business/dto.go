// AngelaMos | 2026
// dto.go

package business

import (
	"time"
)

type CreateBusinessRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type UpdateBusinessRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
}

type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func ToBusinessResponse(b *Business) BusinessResponse {
	return BusinessResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}

func ToBusinessResponseList(businesses []Business) []BusinessResponse {
	responses := make([]BusinessResponse, 0, len(businesses))
	for i := range businesses {
		responses = append(responses, ToBusinessResponse(&businesses[i]))
	}
	return responses
}
