// AngelaMos | 2026
// service.go

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
	"github.com/carterperez-dev/marketplace-api/internal/llm"
	"github.com/carterperez-dev/marketplace-api/internal/metrics"
	"github.com/carterperez-dev/marketplace-api/internal/product"
)

const historyLimit = 20

// Catalog supplies the approved products the assistant talks about.
type Catalog interface {
	ListPublic(ctx context.Context) ([]product.Product, error)
}

type Service struct {
	repo      Repository
	catalog   Catalog
	generator llm.Generator
	now       func() time.Time
}

// NewService builds the assistant. A nil generator runs it in demo mode.
func NewService(repo Repository, catalog Catalog, generator llm.Generator) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		generator: generator,
		now:       time.Now,
	}
}

// Send answers one message and records the exchange. Only a blank message
// is an error; every other failure degrades to a canned reply, and a failed
// save returns the reply without an id.
func (s *Service) Send(
	ctx context.Context,
	p *authz.Principal,
	message string,
) (*Message, error) {
	if strings.TrimSpace(message) == "" {
		return nil, core.InvalidInput("Message cannot be empty")
	}

	ctx, span := core.StartSpan(ctx, "chat.Send")
	defer span.End()

	reply, mode, err := s.reply(ctx, message)
	if err != nil {
		slog.ErrorContext(ctx, "assistant reply failed", "error", err)
		reply, mode = apologyReply, metrics.ChatApology
	}
	metrics.ObserveChatResponse(mode)
	core.AddSpanEvent(ctx, "chat.reply", attribute.String("chat.mode", mode))

	msg := &Message{
		ID:          uuid.New().String(),
		UserMessage: message,
		AIResponse:  reply,
	}
	if p.Authenticated() {
		userID := p.UserID
		msg.UserID = &userID
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "store chat message", "error", err)
		return &Message{
			UserMessage: message,
			AIResponse:  reply,
			Timestamp:   s.now(),
		}, nil
	}

	return msg, nil
}

func (s *Service) reply(ctx context.Context, message string) (string, string, error) {
	products, err := s.catalog.ListPublic(ctx)
	if err != nil {
		return "", "", fmt.Errorf("load catalog: %w", err)
	}

	if s.generator == nil {
		return demoReply(products), metrics.ChatDemo, nil
	}

	text, err := s.generator.Generate(ctx, systemContext(products), message)
	if err == nil {
		return text, metrics.ChatGenerated, nil
	}

	slog.WarnContext(ctx, "generator failed, answering from catalog", "error", err)
	core.SetSpanError(ctx, err)

	if quotaExhausted(err) {
		name, text := intentReply(message, products)
		slog.DebugContext(ctx, "intent matched", "intent", name)
		return text, metrics.ChatIntent, nil
	}

	return fallbackReply(products), metrics.ChatFallback, nil
}

func quotaExhausted(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "quota") || strings.Contains(text, "billing")
}

// History returns the most recent exchanges, newest first.
func (s *Service) History(ctx context.Context) ([]Message, error) {
	return s.repo.ListRecent(ctx, historyLimit)
}

func (s *Service) Clear(ctx context.Context) error {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}

	slog.InfoContext(ctx, "chat history cleared", "deleted", n)
	return nil
}
