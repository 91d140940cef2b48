// AngelaMos | 2026
// authz.go

// Package authz holds the marketplace permission model: the closed set of
// roles, the capabilities each role grants, and the decision table that maps
// an action to the capability it requires.
package authz

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleApprover Role = "approver"
	RoleViewer   Role = "viewer"
)

var Roles = []Role{RoleAdmin, RoleEditor, RoleApprover, RoleViewer}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("parse role %q: %w", s, core.ErrInvalidInput)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleApprover, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func (r Role) CanCreateProduct() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleApprover
}

func (r Role) CanApproveProduct() bool {
	return r == RoleAdmin || r == RoleApprover
}

func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// SeesAllProducts reports whether the role lists products across every
// business instead of only its own.
func (r Role) SeesAllProducts() bool {
	return r == RoleAdmin || r == RoleApprover
}

type Action string

const (
	ActionCreateUser     Action = "user:create"
	ActionUpdateUser     Action = "user:update"
	ActionDeleteUser     Action = "user:delete"
	ActionCreateProduct  Action = "product:create"
	ActionUpdateProduct  Action = "product:update"
	ActionDeleteProduct  Action = "product:delete"
	ActionApproveProduct Action = "product:approve"
	ActionListPublic     Action = "product:list_public"
	ActionRead           Action = "read"
)

// Principal is the acting user as seen by the permission model. A nil
// *Principal is an anonymous caller.
type Principal struct {
	UserID     string
	Username   string
	Role       Role
	BusinessID *string
}

func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != ""
}

func (p *Principal) HasBusiness() bool {
	return p != nil && p.BusinessID != nil && *p.BusinessID != ""
}

type rule struct {
	public bool
	allow  func(Role) bool
}

func anyRole(Role) bool { return true }

var rules = map[Action]rule{
	ActionCreateUser:     {allow: Role.CanManageUsers},
	ActionUpdateUser:     {allow: Role.CanManageUsers},
	ActionDeleteUser:     {allow: Role.CanManageUsers},
	ActionCreateProduct:  {allow: Role.CanCreateProduct},
	ActionUpdateProduct:  {allow: Role.CanCreateProduct},
	ActionDeleteProduct:  {allow: Role.CanCreateProduct},
	ActionApproveProduct: {allow: Role.CanApproveProduct},
	ActionListPublic:     {public: true, allow: anyRole},
	ActionRead:           {allow: anyRole},
}

func Allow(p *Principal, a Action) bool {
	return Check(p, a) == nil
}

// Check returns nil when p may perform a, core.ErrUnauthorized when a
// protected action is attempted anonymously, and core.ErrForbidden when the
// role lacks the capability. Unknown actions are denied.
func Check(p *Principal, a Action) error {
	r, ok := rules[a]
	if !ok {
		return fmt.Errorf("unknown action %q: %w", a, core.ErrForbidden)
	}

	if r.public {
		return nil
	}

	if !p.Authenticated() {
		return fmt.Errorf("%s: %w", a, core.ErrUnauthorized)
	}

	if !r.allow(p.Role) {
		return fmt.Errorf("%s as %s: %w", a, p.Role, core.ErrForbidden)
	}

	return nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
