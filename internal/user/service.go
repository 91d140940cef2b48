// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/marketplace-api/internal/auth"
	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type BusinessChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       Repository
	businesses BusinessChecker
}

func NewService(repo Repository, businesses BusinessChecker) *Service {
	return &Service{repo: repo, businesses: businesses}
}

func (s *Service) List(
	ctx context.Context,
	p *authz.Principal,
	params ListUsersParams,
) ([]User, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}

	if params.Business != "" {
		if _, err := uuid.Parse(params.Business); err != nil {
			return nil, core.InvalidInput("business must be a valid UUID")
		}
	}
	if params.Role != "" {
		if _, err := authz.ParseRole(params.Role); err != nil {
			return nil, core.InvalidInput("role must be one of: admin, editor, approver, viewer")
		}
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Get(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*User, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	p *authz.Principal,
	req CreateUserRequest,
) (*User, error) {
	if err := authz.Check(p, authz.ActionCreateUser); err != nil {
		return nil, err
	}

	return s.create(ctx, req)
}

// CreateAdmin provisions an administrator without an acting principal. It
// backs the operator CLI.
func (s *Service) CreateAdmin(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	req.Role = string(authz.RoleAdmin)
	return s.create(ctx, req)
}

func (s *Service) create(ctx context.Context, req CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, core.InvalidInput("username may not be blank")
	}

	role := authz.RoleViewer
	if req.Role != "" {
		parsed, err := authz.ParseRole(req.Role)
		if err != nil {
			return nil, core.InvalidInput("role must be one of: admin, editor, approver, viewer")
		}
		role = parsed
	}

	businessID, err := s.resolveBusiness(ctx, req.Business)
	if err != nil {
		return nil, err
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
		BusinessID:   businessID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicateUsername(err)
	}

	return user, nil
}

func (s *Service) Update(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	patch := PatchUserRequest{
		Username:  &req.Username,
		Email:     &req.Email,
		Role:      &req.Role,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
	}
	if req.Password != "" {
		patch.Password = &req.Password
	}

	empty := ""
	patch.Business = &empty
	if req.Business != nil {
		patch.Business = req.Business
	}

	return s.PartialUpdate(ctx, p, id, patch)
}

func (s *Service) PartialUpdate(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req PatchUserRequest,
) (*User, error) {
	if err := authz.Check(p, authz.ActionUpdateUser); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, user, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, duplicateUsername(err)
	}

	return user, nil
}

func (s *Service) apply(ctx context.Context, user *User, req PatchUserRequest) error {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return core.InvalidInput("username may not be blank")
		}
		user.Username = username
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if req.Role != nil {
		role, err := authz.ParseRole(*req.Role)
		if err != nil {
			return core.InvalidInput("role must be one of: admin, editor, approver, viewer")
		}
		user.Role = role
	}

	if req.Business != nil {
		businessID, err := s.resolveBusiness(ctx, req.Business)
		if err != nil {
			return err
		}
		user.BusinessID = businessID
	}

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
		user.TokenVersion++
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := authz.Check(p, authz.ActionDeleteUser); err != nil {
		return err
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return s.repo.Delete(ctx, id)
}

// LoadPrincipal returns the user's current role and business. A token minted
// before the last password change is rejected.
func (s *Service) LoadPrincipal(
	ctx context.Context,
	userID string,
	tokenVersion int,
) (*authz.Principal, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if tokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("load principal: %w", core.ErrTokenRevoked)
	}

	return user.Principal(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) resolveBusiness(ctx context.Context, raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	id := strings.TrimSpace(*raw)
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.InvalidInput("business must be a valid UUID")
	}

	exists, err := s.businesses.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check business: %w", err)
	}
	if !exists {
		return nil, core.InvalidInput("business %s does not exist", id)
	}

	return &id, nil
}

func duplicateUsername(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.InvalidInput("username: a user with that username already exists")
	}
	return err
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		BusinessID:   u.BusinessID,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
