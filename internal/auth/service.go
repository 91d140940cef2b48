// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
	"github.com/carterperez-dev/marketplace-api/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")

	errRevoked = fmt.Errorf("refresh token: %w", core.ErrTokenRevoked)
	errExpired = fmt.Errorf("refresh token: %w", core.ErrTokenExpired)
)

const blacklistPrefix = "blacklist:"

type UserInfo struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         authz.Role
	BusinessID   *string
	TokenVersion int
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	userProvider UserProvider
	redis        *redis.Client
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		userProvider: userProvider,
		redis:        redisClient,
	}
}

// Login matches the username exactly. Unknown users and wrong passwords
// return the same error after the same amount of hashing work.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*LoginResponse, error) {
	user, err := s.userProvider.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	access, refresh, err := s.issue(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Access:  access,
		Refresh: refresh,
		User:    toUserResponse(user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Presenting a token that
// was already exchanged revokes its whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*RefreshResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if err := stored.Check(time.Now()); err != nil {
		if errors.Is(err, ErrTokenReuse) {
			s.revokeFamily(ctx, stored.FamilyID)
		}
		return nil, err
	}

	user, err := s.userProvider.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	access, next, err := s.mint(user, stored.FamilyID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Rotate(ctx, stored.ID, next.record); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.revokeFamily(ctx, stored.FamilyID)
			return nil, ErrTokenReuse
		}
		return nil, err
	}

	return &RefreshResponse{Access: access, Refresh: next.token}, nil
}

// Logout revokes the refresh token when it belongs to the caller and
// blacklists the presented access token until it would have expired.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken string,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if refreshToken != "" {
		stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("find token: %w", err)
		case stored.UserID != claims.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			if err := s.repo.RevokeByID(ctx, stored.ID); err != nil &&
				!errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("revoke token: %w", err)
			}
		}
	}

	return s.RevokeAccessToken(ctx, claims.JTI, claims.ExpiresAt)
}

func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if jti == "" || ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	exists, err := s.redis.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// VerifyAccessToken validates the token and rejects logged-out tokens. If
// the blacklist cannot be reached the token is accepted and a warning is
// logged.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.IsAccessTokenBlacklisted(ctx, claims.JTI)
	if err != nil {
		slog.WarnContext(ctx, "token blacklist unavailable", "error", err)
		return claims, nil
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) CurrentUser(
	ctx context.Context,
	p *authz.Principal,
) (*UserResponse, error) {
	if err := authz.Check(p, authz.ActionRead); err != nil {
		return nil, err
	}

	user, err := s.userProvider.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// PruneExpired deletes refresh tokens that expired before the cutoff.
func (s *Service) PruneExpired(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeleteExpired(ctx, before)
}

// issue mints a token pair for a fresh login and stores the refresh half.
func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress string,
) (string, string, error) {
	access, next, err := s.mint(user, "", userAgent, ipAddress)
	if err != nil {
		return "", "", err
	}

	if err := s.repo.Create(ctx, next.record); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}

	return access, next.token, nil
}

type mintedRefresh struct {
	token  string
	record *RefreshToken
}

// mint signs an access token and creates, but does not store, the refresh
// token that accompanies it. An empty familyID starts a new family.
func (s *Service) mint(
	user *UserInfo,
	familyID, userAgent, ipAddress string,
) (string, *mintedRefresh, error) {
	businessID := ""
	if user.BusinessID != nil {
		businessID = *user.BusinessID
	}

	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Role:         string(user.Role),
		BusinessID:   businessID,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return "", nil, fmt.Errorf("create access token: %w", err)
	}

	data, err := s.jwt.CreateRefreshToken(user.ID, familyID)
	if err != nil {
		return "", nil, err
	}

	return access, &mintedRefresh{
		token: data.Token,
		record: &RefreshToken{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			TokenHash: data.Hash,
			FamilyID:  data.FamilyID,
			ExpiresAt: data.ExpiresAt,
			UserAgent: userAgent,
			IPAddress: ipAddress,
		},
	}, nil
}

func (s *Service) revokeFamily(ctx context.Context, familyID string) {
	if err := s.repo.RevokeByFamilyID(ctx, familyID); err != nil {
		slog.ErrorContext(ctx, "revoke token family failed",
			"family_id", familyID,
			"error", err,
		)
	}
}

var _ middleware.TokenVerifier = (*Service)(nil)
