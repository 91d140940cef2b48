// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
)

type User struct {
	ID           string     `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	PasswordHash string     `db:"password_hash"`
	Role         authz.Role `db:"role"`
	BusinessID   *string    `db:"business_id"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (u *User) Principal() *authz.Principal {
	return &authz.Principal{
		UserID:     u.ID,
		Username:   u.Username,
		Role:       u.Role,
		BusinessID: u.BusinessID,
	}
}
