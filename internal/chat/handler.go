// AngelaMos | 2026
// handler.go

package chat

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

// RegisterRoutes mounts the assistant. optionalAuth attaches a principal
// when a valid token is sent; limiter throttles the chat endpoint only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.With(optionalAuth, limiter).Post("/chatbot", h.Send)
	r.Get("/chat-history", h.History)
	r.Delete("/clear-chat-history", h.Clear)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	msg, err := h.service.Send(r.Context(), authz.PrincipalFrom(r.Context()), req.Message)
	if err != nil {
		core.ServiceError(w, err, "chat message")
		return
	}

	core.OK(w, ToMessageResponse(msg))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.History(r.Context())
	if err != nil {
		core.ServiceError(w, err, "chat message")
		return
	}

	core.OK(w, ToMessageResponseList(messages))
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ClearResponse{Message: "Chat history cleared successfully"})
}
