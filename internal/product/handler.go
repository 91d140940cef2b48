// AngelaMos | 2026
// handler.go

package product

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
	r.Route("/products", func(r chi.Router) {
		r.Get("/public", h.ListPublic)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{productID}", h.Get)
			r.Put("/{productID}", h.Update)
			r.Patch("/{productID}", h.PartialUpdate)
			r.Delete("/{productID}", h.Delete)
			r.Post("/{productID}/approve", h.Approve)
		})
	})
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListPublic(r.Context())
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), authz.PrincipalFrom(r.Context()))
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFrom(r.Context())
	if err := authz.Check(principal, authz.ActionCreateProduct); err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	var req CreateProductRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.Created(w, ToProductResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFrom(r.Context())
	if err := authz.Check(principal, authz.ActionUpdateProduct); err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	var req UpdateProductRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), principal, chi.URLParam(r, "productID"), req)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFrom(r.Context())
	if err := authz.Check(principal, authz.ActionUpdateProduct); err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	var req PatchProductRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.PartialUpdate(r.Context(), principal, chi.URLParam(r, "productID"), req)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Approve(
		r.Context(),
		authz.PrincipalFrom(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponse(p))
}
