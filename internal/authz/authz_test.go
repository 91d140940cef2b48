// AngelaMos | 2026
// authz_test.go

package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role    Role
		create  bool
		approve bool
		manage  bool
		seesAll bool
	}{
		{RoleAdmin, true, true, true, true},
		{RoleEditor, true, false, false, false},
		{RoleApprover, true, true, false, true},
		{RoleViewer, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.create, tt.role.CanCreateProduct())
			assert.Equal(t, tt.approve, tt.role.CanApproveProduct())
			assert.Equal(t, tt.manage, tt.role.CanManageUsers())
			assert.Equal(t, tt.seesAll, tt.role.SeesAllProducts())
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = ParseRole("Admin")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCheck(t *testing.T) {
	principal := func(r Role) *Principal {
		return &Principal{UserID: "u-" + string(r), Role: r}
	}

	tests := []struct {
		name    string
		p       *Principal
		action  Action
		wantErr error
	}{
		{"viewer cannot create product", principal(RoleViewer), ActionCreateProduct, core.ErrForbidden},
		{"editor creates product", principal(RoleEditor), ActionCreateProduct, nil},
		{"approver creates product", principal(RoleApprover), ActionCreateProduct, nil},
		{"admin creates product", principal(RoleAdmin), ActionCreateProduct, nil},
		{"editor cannot approve", principal(RoleEditor), ActionApproveProduct, core.ErrForbidden},
		{"approver approves", principal(RoleApprover), ActionApproveProduct, nil},
		{"editor cannot manage users", principal(RoleEditor), ActionCreateUser, core.ErrForbidden},
		{"admin deletes user", principal(RoleAdmin), ActionDeleteUser, nil},
		{"viewer reads", principal(RoleViewer), ActionRead, nil},
		{"viewer cannot delete product", principal(RoleViewer), ActionDeleteProduct, core.ErrForbidden},
		{"anonymous public listing", nil, ActionListPublic, nil},
		{"anonymous read", nil, ActionRead, core.ErrUnauthorized},
		{"anonymous create", nil, ActionCreateProduct, core.ErrUnauthorized},
		{"empty principal is anonymous", &Principal{Role: RoleAdmin}, ActionRead, core.ErrUnauthorized},
		{"unknown action", principal(RoleAdmin), Action("product:burn"), core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.p, tt.action)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.True(t, Allow(tt.p, tt.action))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, Allow(tt.p, tt.action))
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, PrincipalFrom(context.Background()))

	biz := "b-1"
	p := &Principal{UserID: "u-1", Role: RoleEditor, BusinessID: &biz}
	ctx := WithPrincipal(context.Background(), p)

	got := PrincipalFrom(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)
	assert.True(t, got.HasBusiness())

	var anon *Principal
	assert.False(t, anon.Authenticated())
	assert.False(t, anon.HasBusiness())
}
