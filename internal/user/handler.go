// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts /users. Reads are open to any session; writes are
// gated by the service on the admin capability.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}", h.UpdateUser)
		r.Patch("/{userID}", h.PatchUser)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
		Business: r.URL.Query().Get("business"),
	}

	users, err := h.service.List(r.Context(), authz.PrincipalFrom(r.Context()), params)
	if err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p := authz.PrincipalFrom(r.Context())
	if err := authz.Check(p, authz.ActionCreateUser); err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	var req CreateUserRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	p := authz.PrincipalFrom(r.Context())
	if err := authz.Check(p, authz.ActionUpdateUser); err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	var req UpdateUserRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), p, chi.URLParam(r, "userID"), req)
	if err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) PatchUser(w http.ResponseWriter, r *http.Request) {
	p := authz.PrincipalFrom(r.Context())
	if err := authz.Check(p, authz.ActionUpdateUser); err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	var req PatchUserRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.service.PartialUpdate(r.Context(), p, chi.URLParam(r, "userID"), req)
	if err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.ServiceError(w, err, "user")
		return
	}

	core.NoContent(w)
}
