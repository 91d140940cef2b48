// AngelaMos | 2026
// service.go

package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, p *authz.Principal) ([]Business, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Business, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("get business: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	p *authz.Principal,
	req CreateBusinessRequest,
) (*Business, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, core.InvalidInput("name may not be blank")
	}

	b := &Business{
		ID:   uuid.New().String(),
		Name: name,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Update(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req UpdateBusinessRequest,
) (*Business, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}

	if !validID(id) {
		return nil, fmt.Errorf("update business: %w", core.ErrNotFound)
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, core.InvalidInput("name may not be blank")
		}
		b.Name = name
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return err
	}

	if !validID(id) {
		return fmt.Errorf("delete business: %w", core.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete business %s: %w", id, err)
	}

	return nil
}

// Exists reports whether a business with the given id is present.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
