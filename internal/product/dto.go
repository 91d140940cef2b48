// AngelaMos | 2026
// dto.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest accepts price as a JSON number or string. Any
// business field in the payload is ignored; ownership comes from the caller.
type CreateProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Status      string           `json:"status"      validate:"omitempty,oneof=draft pending_approval approved"`
}

// UpdateProductRequest is the full replacement body. Omitting status keeps
// the current one.
type UpdateProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Status      string           `json:"status"      validate:"omitempty,oneof=draft pending_approval approved"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Status      *string          `json:"status,omitempty"      validate:"omitempty,oneof=draft pending_approval approved"`
}

type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	Status        string    `json:"status"`
	Business      string    `json:"business"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	BusinessName  string    `json:"business_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		Status:        string(p.Status),
		Business:      p.BusinessID,
		CreatedBy:     p.CreatedBy,
		CreatedByName: p.CreatedByName,
		BusinessName:  p.BusinessName,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
