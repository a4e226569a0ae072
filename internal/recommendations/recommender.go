package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/locallink/locallink-backend/internal/catalog"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

// Recommender maps a free-text query to matching product ids.
type Recommender interface {
	Recommend(ctx context.Context, query string, products []catalog.Product) ([]string, error)
}

type textGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// GeminiRecommender asks a text model to pick products from the catalog.
type GeminiRecommender struct {
	gen textGenerator
}

// NewGeminiRecommender wraps a generateContent client.
func NewGeminiRecommender(gen textGenerator) (*GeminiRecommender, error) {
	if gen == nil {
		return nil, fmt.Errorf("text generator required")
	}
	return &GeminiRecommender{gen: gen}, nil
}

func (g *GeminiRecommender) Recommend(ctx context.Context, query string, products []catalog.Product) ([]string, error) {
	if len(products) == 0 {
		return nil, nil
	}
	text, err := g.gen.GenerateJSON(ctx, buildPrompt(query, products))
	if err != nil {
		return nil, err
	}
	return parseIDs(text)
}

func buildPrompt(query string, products []catalog.Product) string {
	var b strings.Builder
	b.WriteString("You are a shopping assistant for a local marketplace.\n")
	b.WriteString("Catalog, one product per line as id | name | category | store type | description:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s\n", p.ID, p.Name, p.Category, p.StoreType, p.Description)
	}
	fmt.Fprintf(&b, "Customer request: %q\n", query)
	b.WriteString("Reply with a JSON array of the matching product ids only. Reply [] when nothing matches.")
	return b.String()
}

// parseIDs reads a JSON array of ids. Models sometimes wrap the array in a
// markdown fence, which is stripped first.
func parseIDs(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var ids []string
	if err := json.Unmarshal([]byte(trimmed), &ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode recommended ids")
	}
	return ids, nil
}
