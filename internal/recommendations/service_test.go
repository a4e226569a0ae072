package recommendations

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

type stubCatalog struct {
	products []catalog.Product
}

func (s stubCatalog) ListProducts(_ context.Context, filter catalog.ListFilter) []catalog.Product {
	if len(filter.Highlight) == 0 {
		return s.products
	}
	set := map[string]bool{}
	for _, id := range filter.Highlight {
		set[id] = true
	}
	var out []catalog.Product
	for _, p := range s.products {
		if set[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

type stubRecommender struct {
	ids   []string
	err   error
	calls int
}

func (s *stubRecommender) Recommend(context.Context, string, []catalog.Product) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

type stubGenerator struct {
	text   string
	prompt string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, nil
}

var fixtures = []catalog.Product{
	{ID: "p1", Name: "Basmati Rice", Category: "Grains", StoreType: enums.StoreTypeKirana, Description: "Long grain rice"},
	{ID: "p2", Name: "Cotton Shirt", Category: "Apparel", StoreType: enums.StoreTypeClothing},
	{ID: "p3", Name: "Paracetamol", Category: "Pharmacy", StoreType: enums.StoreTypeMedical, Description: "For fever and headaches"},
}

func TestRecommendDropsUnknownAndDuplicateIDs(t *testing.T) {
	primary := &stubRecommender{ids: []string{"p3", "ghost", "p1", "p3"}}
	svc, err := NewService(stubCatalog{products: fixtures}, primary, nil, nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	result, err := svc.Recommend(context.Background(), "  fever and food ")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !reflect.DeepEqual(result.IDs, []string{"p3", "p1"}) {
		t.Fatalf("unexpected ids %v", result.IDs)
	}
	if len(result.Products) != 2 || result.Hint != "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Query != "fever and food" {
		t.Fatalf("expected trimmed query, got %q", result.Query)
	}
}

func TestRecommendEmptyResultCarriesHint(t *testing.T) {
	svc, _ := NewService(stubCatalog{products: fixtures}, &stubRecommender{}, nil, nil)

	result, err := svc.Recommend(context.Background(), "spaceship")
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(result.IDs) != 0 || result.Hint != NoMatchHint {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRecommendBlankQuery(t *testing.T) {
	primary := &stubRecommender{}
	svc, _ := NewService(stubCatalog{products: fixtures}, primary, nil, nil)

	if _, err := svc.Recommend(context.Background(), "   "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if primary.calls != 0 {
		t.Fatal("recommender must not be called for a blank query")
	}
}

func TestRecommendFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &stubRecommender{err: errors.New("upstream down")}
	fallback := &stubRecommender{ids: []string{"p2"}}
	svc, _ := NewService(stubCatalog{products: fixtures}, primary, fallback, nil)

	result, err := svc.Recommend(context.Background(), "shirt")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if fallback.calls != 1 || !reflect.DeepEqual(result.IDs, []string{"p2"}) {
		t.Fatalf("expected fallback result, got %+v", result)
	}

	noFallback, _ := NewService(stubCatalog{products: fixtures}, primary, nil, nil)
	if _, err := noFallback.Recommend(context.Background(), "shirt"); err == nil {
		t.Fatal("expected primary error without fallback")
	}
}

func TestKeywordRecommenderRanksByOverlap(t *testing.T) {
	ids, err := KeywordRecommender{}.Recommend(context.Background(), "I need rice grains for dinner", fixtures)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"p1"}) {
		t.Fatalf("unexpected ids %v", ids)
	}

	ids, _ = KeywordRecommender{}.Recommend(context.Background(), "headache medical", fixtures)
	if !reflect.DeepEqual(ids, []string{"p3"}) {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestGeminiRecommenderParsesFencedArray(t *testing.T) {
	gen := &stubGenerator{text: "```json\n[\"p2\", \"p1\"]\n```"}
	rec, err := NewGeminiRecommender(gen)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ids, err := rec.Recommend(context.Background(), "clothes", fixtures)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"p2", "p1"}) {
		t.Fatalf("unexpected ids %v", ids)
	}
	if !strings.Contains(gen.prompt, "p3 | Paracetamol") || !strings.Contains(gen.prompt, `"clothes"`) {
		t.Fatalf("prompt missing catalog or query:\n%s", gen.prompt)
	}
}

func TestGeminiRecommenderRejectsMalformedReply(t *testing.T) {
	rec, _ := NewGeminiRecommender(&stubGenerator{text: "sure! p1 and p2"})
	if _, err := rec.Recommend(context.Background(), "x", fixtures); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
