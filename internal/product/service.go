// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
	"github.com/carterperez-dev/marketplace-api/internal/metrics"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a product owned by the caller's business with the caller as
// author. Status defaults to draft.
func (s *Service) Create(
	ctx context.Context,
	p *authz.Principal,
	req CreateProductRequest,
) (*Product, error) {
	if err := authz.Check(p, authz.ActionCreateProduct); err != nil {
		return nil, err
	}

	if !p.HasBusiness() {
		return nil, core.InvalidInput("business: your account is not assigned to a business")
	}

	product := &Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      StatusDraft,
		BusinessID:  *p.BusinessID,
		CreatedBy:   p.UserID,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Status != "" {
		product.Status = Status(req.Status)
	}

	if err := validate(product); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, product.ID)
}

// List returns every product for roles that see all businesses and the
// caller's own business otherwise. Callers without a business see nothing.
func (s *Service) List(ctx context.Context, p *authz.Principal) ([]Product, error) {
	if !p.Authenticated() {
		return []Product{}, nil
	}

	if p.Role.SeesAllProducts() {
		return s.repo.List(ctx, ListFilter{})
	}

	if !p.HasBusiness() {
		return []Product{}, nil
	}

	return s.repo.List(ctx, ListFilter{BusinessID: *p.BusinessID})
}

// ListPublic returns approved products from every business, newest first.
func (s *Service) ListPublic(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx, ListFilter{Status: StatusApproved})
}

func (s *Service) Get(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Product, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}

	return s.visible(ctx, p, id)
}

func (s *Service) Update(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req UpdateProductRequest,
) (*Product, error) {
	patch := PatchProductRequest{
		Name:        &req.Name,
		Description: &req.Description,
		Price:       req.Price,
	}
	if req.Status != "" {
		patch.Status = &req.Status
	}

	return s.PartialUpdate(ctx, p, id, patch)
}

// PartialUpdate applies the present fields. Business and author never
// change.
func (s *Service) PartialUpdate(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req PatchProductRequest,
) (*Product, error) {
	if err := authz.Check(p, authz.ActionUpdateProduct); err != nil {
		return nil, err
	}

	product, err := s.visible(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Status != nil {
		product.Status = Status(*req.Status)
	}

	if err := validate(product); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := authz.Check(p, authz.ActionDeleteProduct); err != nil {
		return err
	}

	if _, err := s.visible(ctx, p, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// Approve sets the status to approved regardless of the current one.
// Repeating it is harmless; concurrent approvals all succeed.
func (s *Service) Approve(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Product, error) {
	if err := authz.Check(p, authz.ActionApproveProduct); err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "product.Approve", attribute.String("product.id", id))
	defer span.End()

	if _, err := s.visible(ctx, p, id); err != nil {
		return nil, err
	}

	if err := s.repo.SetStatus(ctx, id, StatusApproved); err != nil {
		return nil, err
	}
	metrics.ObserveApproval()

	return s.repo.GetByID(ctx, id)
}

// ForceApprove approves products outside any request, for operator tooling.
// It stops at the first failure and reports how many were approved.
func (s *Service) ForceApprove(ctx context.Context, ids []string) (int, error) {
	for i, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return i, fmt.Errorf("approve %s: %w", id, core.ErrNotFound)
		}
		if err := s.repo.SetStatus(ctx, id, StatusApproved); err != nil {
			return i, fmt.Errorf("approve %s: %w", id, err)
		}
		metrics.ObserveApproval()
	}
	return len(ids), nil
}

// visible loads the product if the caller's list scope includes it. Out of
// scope products are reported as not found.
func (s *Service) visible(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Role.SeesAllProducts() {
		return product, nil
	}
	if p.HasBusiness() && *p.BusinessID == product.BusinessID {
		return product, nil
	}

	return nil, fmt.Errorf("get product %s: %w", id, core.ErrNotFound)
}

func validate(p *Product) error {
	if p.Name == "" {
		return core.InvalidInput("name may not be blank")
	}
	if !p.Status.Valid() {
		return core.InvalidInput("status must be one of: draft, pending_approval, approved")
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	return validatePrice(p.Price)
}
