// AngelaMos | 2026
// dto.go

package user

type CreateUserRequest struct {
	Username  string  `json:"username"   validate:"required,min=1,max=150"`
	Email     string  `json:"email"      validate:"omitempty,email,max=254"`
	Password  string  `json:"password"   validate:"required,min=8,max=128"`
	Role      string  `json:"role"       validate:"omitempty,oneof=admin editor approver viewer"`
	Business  *string `json:"business"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name"  validate:"max=150"`
}

// UpdateUserRequest replaces every writable field. Password is optional;
// when present it is rehashed and existing sessions are invalidated.
type UpdateUserRequest struct {
	Username  string  `json:"username"   validate:"required,min=1,max=150"`
	Email     string  `json:"email"      validate:"omitempty,email,max=254"`
	Password  string  `json:"password"   validate:"omitempty,min=8,max=128"`
	Role      string  `json:"role"       validate:"required,oneof=admin editor approver viewer"`
	Business  *string `json:"business"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name"  validate:"max=150"`
}

// PatchUserRequest changes only the fields present. An empty business
// string detaches the user from its business.
type PatchUserRequest struct {
	Username  *string `json:"username,omitempty"   validate:"omitempty,min=1,max=150"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email,max=254"`
	Password  *string `json:"password,omitempty"   validate:"omitempty,min=8,max=128"`
	Role      *string `json:"role,omitempty"       validate:"omitempty,oneof=admin editor approver viewer"`
	Business  *string `json:"business,omitempty"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,max=150"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Business  *string `json:"business"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
}

type ListUsersParams struct {
	Search   string
	Role     string
	Business string
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Business:  u.BusinessID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
