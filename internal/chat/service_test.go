// AngelaMos | 2026
// service_test.go

package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
	"github.com/carterperez-dev/marketplace-api/internal/llm"
	"github.com/carterperez-dev/marketplace-api/internal/product"
)

type memRepo struct {
	mu        sync.Mutex
	clock     time.Time
	messages  []Message
	failWrite bool
	failClear bool
}

func (m *memRepo) Create(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("connection refused")
	}
	m.clock = m.clock.Add(time.Second)
	msg.Timestamp = m.clock
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memRepo) ListRecent(_ context.Context, limit int) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failClear {
		return 0, errors.New("disk full")
	}
	n := int64(len(m.messages))
	m.messages = nil
	return n, nil
}

type stubCatalog struct {
	products []product.Product
	err      error
}

func (c stubCatalog) ListPublic(context.Context) ([]product.Product, error) {
	return c.products, c.err
}

type stubGenerator struct {
	reply  string
	err    error
	system string
}

func (g *stubGenerator) Generate(_ context.Context, systemContext, _ string) (string, error) {
	g.system = systemContext
	return g.reply, g.err
}

var _ llm.Generator = (*stubGenerator)(nil)

func item(name, desc, price, biz string) product.Product {
	return product.Product{
		Name:         name,
		Description:  desc,
		Price:        decimal.RequireFromString(price),
		Status:       product.StatusApproved,
		BusinessName: biz,
	}
}

func catalog() []product.Product {
	return []product.Product{
		item("Desk Lamp", "Warm light", "25", "Acme"),
		item("Office Chair", "Ergonomic", "150.5", "Globex"),
		item("Notebook", "Ruled pages", "4.99", "Acme"),
		item("Standing Desk", "Adjustable", "420", "Initech"),
	}
}

var quotaErr = &llm.APIError{
	StatusCode: 429,
	Message:    "You exceeded your current quota, please check your plan and billing details.",
	Code:       "insufficient_quota",
}

func send(t *testing.T, svc *Service, message string) *Message {
	t.Helper()
	msg, err := svc.Send(context.Background(), nil, message)
	require.NoError(t, err)
	return msg
}

func TestSendRejectsBlankMessage(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, stubCatalog{}, nil)

	_, err := svc.Send(context.Background(), nil, "   \n\t")
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Equal(t, "Message cannot be empty", core.InputMessage(err))
	assert.Empty(t, repo.messages)
}

func TestDemoMode(t *testing.T) {
	products := append(catalog(), item("Mug", "Ceramic", "8", "Acme"), item("Pen", "Blue ink", "1", "Acme"))
	svc := NewService(&memRepo{}, stubCatalog{products: products}, nil)

	msg := send(t, svc, "hello")

	assert.True(t, strings.HasPrefix(msg.AIResponse,
		"Hello! I'm the marketplace assistant. Here are some of our featured products:\n\n"))
	assert.Contains(t, msg.AIResponse, "• Desk Lamp: Warm light - $25.00 (by Acme)")
	assert.Contains(t, msg.AIResponse, "• Mug: Ceramic - $8.00 (by Acme)")
	assert.NotContains(t, msg.AIResponse, "Pen")
	assert.True(t, strings.HasSuffix(msg.AIResponse,
		"\n\nNote: AI features are currently limited. Please contact support for more assistance."))
	assert.NotEmpty(t, msg.ID)

	empty := NewService(&memRepo{}, stubCatalog{}, nil)
	assert.Equal(t,
		"Hello! Welcome to our marketplace. Currently, there are no products available, but feel free to check back later or contact our support team for assistance.",
		send(t, empty, "hello").AIResponse)
}

func TestGeneratedReplyUsesCatalogContext(t *testing.T) {
	gen := &stubGenerator{reply: "The lamp is great."}
	svc := NewService(&memRepo{}, stubCatalog{products: catalog()[:1]}, gen)

	msg := send(t, svc, "which lamp?")
	assert.Equal(t, "The lamp is great.", msg.AIResponse)
	assert.Equal(t,
		"You are a helpful assistant for a product marketplace. Available products:\nDesk Lamp: Warm light - $25.00 (by Acme). Be friendly and helpful in answering questions about products.",
		gen.system)

	gen = &stubGenerator{reply: "Nothing yet."}
	send(t, NewService(&memRepo{}, stubCatalog{}, gen), "anything?")
	assert.Equal(t,
		"You are a helpful assistant for a product marketplace. No products are currently available.. Be friendly and helpful in answering questions about products.",
		gen.system)
}

func TestQuotaIntents(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains []string
		excludes []string
	}{
		{
			name:     "catalog",
			message:  "What products are available?",
			contains: []string{"Hi! I'm Zuri, your AI shopping assistant. Here are all our available products:", "Standing Desk"},
		},
		{
			name:     "under explicit price",
			message:  "Anything under $30?",
			contains: []string{"Here are products under $30:", "Desk Lamp", "Notebook"},
			excludes: []string{"Office Chair"},
		},
		{
			name:     "under default price",
			message:  "something cheaper please",
			contains: []string{"Here are products under $50:", "Notebook"},
			excludes: []string{"Standing Desk"},
		},
		{
			name:     "about exact name",
			message:  "Tell me about the office chair",
			contains: []string{"I'm Zuri! Here's what I know about Office Chair:\n\nErgonomic\n\nPrice: $150.50\nSold by: Globex"},
		},
		{
			name:     "about partial name",
			message:  "describe the lamp",
			contains: []string{"Here's what I know about Desk Lamp:"},
		},
		{
			name:     "about unknown",
			message:  "info on gizmos",
			contains: []string{"I'm Zuri, your AI assistant! Here are some of our products:", "Which specific product would you like to know more about?"},
			excludes: []string{"Standing Desk"},
		},
		{
			name:     "most expensive",
			message:  "What is your priciest item?",
			contains: []string{"Here are our most expensive products:\n\n• Standing Desk", "Office Chair", "Desk Lamp"},
			excludes: []string{"Notebook"},
		},
		{
			name:     "cheapest",
			message:  "cheapest thing?",
			contains: []string{"Here are our most affordable products:\n\n• Notebook", "Desk Lamp", "Office Chair"},
			excludes: []string{"Standing Desk"},
		},
		{
			name:     "businesses",
			message:  "Which seller should I use?",
			contains: []string{"Here are the businesses selling on our marketplace:\n\n• Acme\n• Globex\n• Initech"},
		},
		{
			name:     "greeting",
			message:  "hi there",
			contains: []string{"We have 4 products available. Here are a couple:\n\n• Desk Lamp - $25.00\n• Office Chair - $150.50", "- What's the cheapest/most expensive product?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&memRepo{}, stubCatalog{products: catalog()}, &stubGenerator{err: quotaErr})
			msg := send(t, svc, tt.message)
			for _, s := range tt.contains {
				assert.Contains(t, msg.AIResponse, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, msg.AIResponse, s)
			}
		})
	}
}

func TestQuotaIntentsEmptyCatalog(t *testing.T) {
	svc := NewService(&memRepo{}, stubCatalog{}, &stubGenerator{err: errors.New("billing hard limit reached")})

	assert.Equal(t,
		"Hi! I'm Zuri, your AI shopping assistant. Currently, there are no products available in our marketplace.",
		send(t, svc, "show me everything").AIResponse)
	assert.Equal(t,
		"Sorry, we don't have any products under $10 at the moment.",
		send(t, svc, "below 10").AIResponse)
	assert.Equal(t,
		"Currently, there are no businesses with products on our marketplace.",
		send(t, svc, "which company?").AIResponse)
	assert.Equal(t,
		"Hello! I'm Zuri, your AI shopping assistant. Welcome to our marketplace! Currently, there are no products available, but feel free to check back later.",
		send(t, svc, "hey").AIResponse)
}

func TestOtherGeneratorErrorFallsBack(t *testing.T) {
	svc := NewService(&memRepo{}, stubCatalog{products: catalog()}, &stubGenerator{err: errors.New("connection reset")})

	msg := send(t, svc, "show me everything")

	assert.True(t, strings.HasPrefix(msg.AIResponse, "Hello! Here are some of our products:\n\n• Desk Lamp"))
	assert.NotContains(t, msg.AIResponse, "Standing Desk")
	assert.True(t, strings.HasSuffix(msg.AIResponse, "For more detailed assistance, please contact our support team."))

	empty := NewService(&memRepo{}, stubCatalog{}, &stubGenerator{err: errors.New("timeout")})
	assert.Equal(t,
		"Hello! Welcome to our marketplace. Please contact our support team for assistance.",
		send(t, empty, "hi").AIResponse)
}

func TestCatalogFailureApologises(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, stubCatalog{err: errors.New("db down")}, nil)

	msg := send(t, svc, "hello")
	assert.Equal(t, apologyReply, msg.AIResponse)
	require.Len(t, repo.messages, 1)
}

func TestStoreFailureStillReplies(t *testing.T) {
	svc := NewService(&memRepo{failWrite: true}, stubCatalog{products: catalog()}, nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	msg := send(t, svc, "hello")
	assert.Empty(t, msg.ID)
	assert.Equal(t, fixed, msg.Timestamp)
	assert.Contains(t, msg.AIResponse, "featured products")
}

func TestSendRecordsUser(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, stubCatalog{}, nil)

	_, err := svc.Send(context.Background(), &authz.Principal{UserID: "u-1", Role: authz.RoleViewer}, "hi")
	require.NoError(t, err)
	send(t, svc, "anonymous hi")

	require.Len(t, repo.messages, 2)
	require.NotNil(t, repo.messages[0].UserID)
	assert.Equal(t, "u-1", *repo.messages[0].UserID)
	assert.Nil(t, repo.messages[1].UserID)
}

func TestHistoryAndClear(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, stubCatalog{}, nil)

	for i := range 25 {
		send(t, svc, fmt.Sprintf("message %d", i))
	}

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, historyLimit)
	assert.Equal(t, "message 24", history[0].UserMessage)
	assert.Equal(t, "message 5", history[historyLimit-1].UserMessage)

	require.NoError(t, svc.Clear(context.Background()))
	history, err = svc.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)

	repo.failClear = true
	assert.Error(t, svc.Clear(context.Background()))
}

func TestChatEndpoints(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, stubCatalog{products: catalog()}, nil)

	passthrough := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough, passthrough)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chatbot", strings.NewReader(`{"message":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_message":"hi"`)
	assert.Contains(t, rec.Body.String(), `"id":"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chatbot", strings.NewReader(`{"message":"  "}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message cannot be empty")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat-history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ai_response"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/clear-chat-history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Chat history cleared successfully"}`, rec.Body.String())

	repo.failClear = true
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/clear-chat-history", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
