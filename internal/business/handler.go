// AngelaMos | 2026
// handler.go

package business

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/businesses", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{businessID}", h.Get)
		r.Put("/{businessID}", h.Update)
		r.Patch("/{businessID}", h.Update)
		r.Delete("/{businessID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.service.List(r.Context(), authz.PrincipalFrom(r.Context()))
	if err != nil {
		core.ServiceError(w, err, "business")
		return
	}

	core.OK(w, ToBusinessResponseList(businesses))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "businessID"),
	)
	if err != nil {
		core.ServiceError(w, err, "business")
		return
	}

	core.OK(w, ToBusinessResponse(b))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBusinessRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), authz.PrincipalFrom(r.Context()), req)
	if err != nil {
		core.ServiceError(w, err, "business")
		return
	}

	core.Created(w, ToBusinessResponse(b))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBusinessRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	b, err := h.service.Update(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "businessID"),
		req,
	)
	if err != nil {
		core.ServiceError(w, err, "business")
		return
	}

	core.OK(w, ToBusinessResponse(b))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "businessID"),
	)
	if err != nil {
		core.ServiceError(w, err, "business")
		return
	}

	core.NoContent(w)
}
