// AngelaMos | 2026
// replies.go

package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/marketplace-api/internal/product"
)

const (
	demoSampleSize     = 5
	fallbackSampleSize = 3
	rankedSize         = 3
	greetingSampleSize = 2
	defaultPriceLimit  = "50"
)

const apologyReply = "I'm sorry, I'm having trouble processing your request right now. " +
	"Please try again later or contact our support team for assistance."

func productLine(p product.Product) string {
	return fmt.Sprintf("• %s: %s - $%s (by %s)",
		p.Name, p.Description, p.Price.StringFixed(2), p.BusinessName)
}

func productLines(products []product.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, productLine(p))
	}
	return strings.Join(lines, "\n")
}

func firstN(products []product.Product, n int) []product.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}

// systemContext is the prompt handed to the generator. It lists the whole
// approved catalog.
func systemContext(products []product.Product) string {
	catalog := "No products are currently available."
	if len(products) > 0 {
		lines := make([]string, 0, len(products))
		for _, p := range products {
			lines = append(lines, fmt.Sprintf("%s: %s - $%s (by %s)",
				p.Name, p.Description, p.Price.StringFixed(2), p.BusinessName))
		}
		catalog = "Available products:\n" + strings.Join(lines, "\n")
	}

	return "You are a helpful assistant for a product marketplace. " + catalog +
		". Be friendly and helpful in answering questions about products."
}

func demoReply(products []product.Product) string {
	if len(products) == 0 {
		return "Hello! Welcome to our marketplace. Currently, there are no products available, " +
			"but feel free to check back later or contact our support team for assistance."
	}
	return "Hello! I'm the marketplace assistant. Here are some of our featured products:\n\n" +
		productLines(firstN(products, demoSampleSize)) +
		"\n\nNote: AI features are currently limited. Please contact support for more assistance."
}

// fallbackReply answers when the generator failed for a reason other than
// quota or billing.
func fallbackReply(products []product.Product) string {
	if len(products) == 0 {
		return "Hello! Welcome to our marketplace. Please contact our support team for assistance."
	}
	return "Hello! Here are some of our products:\n\n" +
		productLines(firstN(products, fallbackSampleSize)) +
		"\n\nFor more detailed assistance, please contact our support team."
}

type intent struct {
	name     string
	keywords []string
	reply    func(question string, products []product.Product) string
}

func (i intent) matches(question string) bool {
	for _, k := range i.keywords {
		if strings.Contains(question, k) {
			return true
		}
	}
	return false
}

// intents is evaluated top to bottom; the first match answers.
var intents = []intent{
	{
		name:     "catalog",
		keywords: []string{"what products", "available", "show me", "list"},
		reply:    catalogReply,
	},
	{
		name:     "under_price",
		keywords: []string{"under", "less than", "below", "cheaper"},
		reply:    underPriceReply,
	},
	{
		name:     "about",
		keywords: []string{"tell me about", "about", "describe", "details", "info"},
		reply:    aboutReply,
	},
	{
		name:     "most_expensive",
		keywords: []string{"expensive", "most expensive", "highest price", "priciest"},
		reply:    mostExpensiveReply,
	},
	{
		name:     "cheapest",
		keywords: []string{"cheap", "cheapest", "lowest price", "affordable"},
		reply:    cheapestReply,
	},
	{
		name:     "businesses",
		keywords: []string{"business", "seller", "company", "store"},
		reply:    businessesReply,
	},
}

// intentReply answers from the catalog alone when the generator is out of
// quota. Matching is case-insensitive substring search.
func intentReply(message string, products []product.Product) (string, string) {
	question := strings.ToLower(message)
	for _, in := range intents {
		if in.matches(question) {
			return in.name, in.reply(question, products)
		}
	}
	return "greeting", greetingReply(question, products)
}

func catalogReply(_ string, products []product.Product) string {
	if len(products) == 0 {
		return "Hi! I'm Zuri, your AI shopping assistant. Currently, there are no products available in our marketplace."
	}
	return "Hi! I'm Zuri, your AI shopping assistant. Here are all our available products:\n\n" +
		productLines(products)
}

var pricePattern = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)

func underPriceReply(question string, products []product.Product) string {
	limitText := defaultPriceLimit
	if m := pricePattern.FindStringSubmatch(question); m != nil {
		limitText = m[1]
	}
	limit := decimal.RequireFromString(limitText)

	var matched []product.Product
	for _, p := range products {
		if p.Price.LessThanOrEqual(limit) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("Sorry, we don't have any products under $%s at the moment.", limitText)
	}
	return fmt.Sprintf("Here are products under $%s:\n\n%s", limitText, productLines(matched))
}

func aboutReply(question string, products []product.Product) string {
	if p, ok := mentionedProduct(question, products); ok {
		return fmt.Sprintf("I'm Zuri! Here's what I know about %s:\n\n%s\n\nPrice: $%s\nSold by: %s",
			p.Name, p.Description, p.Price.StringFixed(2), p.BusinessName)
	}

	if len(products) == 0 {
		return "I'm Zuri! Currently, there are no products available to describe."
	}
	return "I'm Zuri, your AI assistant! Here are some of our products:\n\n" +
		productLines(firstN(products, fallbackSampleSize)) +
		"\n\nWhich specific product would you like to know more about?"
}

// mentionedProduct looks for a full product name in the question first and
// then for any name word longer than two characters.
func mentionedProduct(question string, products []product.Product) (product.Product, bool) {
	for _, p := range products {
		if strings.Contains(question, strings.ToLower(p.Name)) {
			return p, true
		}
	}

	for _, p := range products {
		for _, word := range strings.Fields(strings.ToLower(p.Name)) {
			if utf8.RuneCountInString(word) > 2 && strings.Contains(question, word) {
				return p, true
			}
		}
	}

	return product.Product{}, false
}

func ranked(products []product.Product, descending bool) []product.Product {
	sorted := make([]product.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Price.GreaterThan(sorted[j].Price)
		}
		return sorted[i].Price.LessThan(sorted[j].Price)
	})
	return firstN(sorted, rankedSize)
}

func mostExpensiveReply(_ string, products []product.Product) string {
	if len(products) == 0 {
		return "Currently, there are no products available."
	}
	return "Here are our most expensive products:\n\n" + productLines(ranked(products, true))
}

func cheapestReply(_ string, products []product.Product) string {
	if len(products) == 0 {
		return "Currently, there are no products available."
	}
	return "Here are our most affordable products:\n\n" + productLines(ranked(products, false))
}

func businessesReply(_ string, products []product.Product) string {
	if len(products) == 0 {
		return "Currently, there are no businesses with products on our marketplace."
	}

	seen := make(map[string]struct{})
	var lines []string
	for _, p := range products {
		if _, ok := seen[p.BusinessName]; ok {
			continue
		}
		seen[p.BusinessName] = struct{}{}
		lines = append(lines, "• "+p.BusinessName)
	}

	return "Here are the businesses selling on our marketplace:\n\n" + strings.Join(lines, "\n")
}

func greetingReply(_ string, products []product.Product) string {
	if len(products) == 0 {
		return "Hello! I'm Zuri, your AI shopping assistant. Welcome to our marketplace! " +
			"Currently, there are no products available, but feel free to check back later."
	}

	sample := firstN(products, greetingSampleSize)
	lines := make([]string, 0, len(sample))
	for _, p := range sample {
		lines = append(lines, fmt.Sprintf("• %s - $%s", p.Name, p.Price.StringFixed(2)))
	}

	return fmt.Sprintf("Hello! I'm Zuri, your AI shopping assistant. I'd be happy to help! "+
		"We have %d products available. Here are a couple:\n\n%s\n\n"+
		"You can ask me about:\n"+
		"- What products are available?\n"+
		"- Which products are under $X?\n"+
		"- Tell me about [product name]\n"+
		"- What's the cheapest/most expensive product?",
		len(products), strings.Join(lines, "\n"))
}
