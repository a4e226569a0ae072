package recommendations

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/locallink/locallink-backend/internal/catalog"
)

// stopWords are skipped when tokenizing queries.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "for": {}, "i": {}, "in": {}, "me": {},
	"my": {}, "need": {}, "of": {}, "some": {}, "the": {}, "to": {}, "want": {},
	"with": {},
}

// KeywordRecommender ranks products by how many query tokens appear in their
// name, description, category and store type.
type KeywordRecommender struct{}

func (KeywordRecommender) Recommend(_ context.Context, query string, products []catalog.Product) ([]string, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	type scored struct {
		id    string
		score int
	}
	var hits []scored
	for _, p := range products {
		haystack := map[string]struct{}{}
		for _, field := range []string{p.Name, p.Description, p.Category, string(p.StoreType)} {
			for _, tok := range tokenize(field) {
				haystack[tok] = struct{}{}
			}
		}
		score := 0
		for _, tok := range tokens {
			if _, ok := haystack[tok]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{id: p.ID, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids, nil
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, strings.TrimSuffix(f, "s"))
	}
	return out
}
