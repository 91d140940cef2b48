// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is the stored half of a login session. Only the SHA-256 of
// the opaque token is persisted. Tokens issued by rotation share FamilyID
// with the token they replaced.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

// Check reports why the token can no longer be exchanged, or nil when it
// can. A used token signals replay and is reported as ErrTokenReuse.
func (t *RefreshToken) Check(now time.Time) error {
	switch {
	case t.IsUsed:
		return ErrTokenReuse
	case t.RevokedAt != nil:
		return errRevoked
	case now.After(t.ExpiresAt):
		return errExpired
	}
	return nil
}
