// Package recommend ranks books against a free-text query. It is a small
// lexical scorer: query tokens are matched against title, author, and
// description, with title matches weighted highest.
package recommend

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/bookrack/bookrack/internal/models"
	"github.com/bookrack/bookrack/internal/storage"
)

const DefaultLimit = 3

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "in": true,
	"on": true, "to": true, "for": true, "with": true, "about": true,
	"is": true, "are": true, "was": true, "it": true, "its": true,
	"by": true, "at": true, "or": true, "be": true, "that": true,
	"i": true, "me": true, "my": true, "like": true, "want": true,
	"book": true, "books": true, "something": true, "read": true,
}

type Recommender struct {
	store storage.BookStore
}

func New(store storage.BookStore) *Recommender {
	return &Recommender{store: store}
}

type scored struct {
	book  models.Book
	score int
}

// Recommend returns up to limit books ranked by lexical overlap with text.
// Books that match nothing are left out entirely, so an unrelated query can
// return an empty list.
func (r *Recommender) Recommend(ctx context.Context, text string, limit int) ([]models.Book, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	books, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	query := tokenize(text)
	if len(query) == 0 {
		return []models.Book{}, nil
	}

	candidates := make([]scored, 0, len(books))
	for _, b := range books {
		s := score(query, b)
		if s > 0 {
			candidates = append(candidates, scored{book: b, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]models.Book, len(candidates))
	for i, c := range candidates {
		out[i] = c.book
	}

	return out, nil
}

func score(query map[string]bool, b models.Book) int {
	total := 0
	for token := range tokenize(b.Title) {
		if query[token] {
			total += 3
		}
	}
	for token := range tokenize(b.Author) {
		if query[token] {
			total += 2
		}
	}
	for token := range tokenize(b.Description) {
		if query[token] {
			total++
		}
	}
	return total
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, w := range words {
		if len(w) < 2 || stopwords[w] {
			continue
		}
		tokens[w] = true
	}

	return tokens
}
