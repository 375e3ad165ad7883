package storage

import (
	"context"
	"sync"
	"time"

	"github.com/bookrack/bookrack/internal/models"
	"github.com/google/uuid"
)

type MemoryBookStore struct {
	mu    sync.RWMutex
	books []models.Book
}

func NewMemoryBookStore() *MemoryBookStore {
	return &MemoryBookStore{}
}

// NewSeededBookStore returns a memory store preloaded with the starter
// collection, so a fresh process has something to serve.
func NewSeededBookStore() *MemoryBookStore {
	s := NewMemoryBookStore()
	now := time.Now()
	for _, b := range seedBooks {
		b.ID = uuid.New().String()
		b.CreatedAt = now
		s.books = append(s.books, b)
	}
	return s
}

func (s *MemoryBookStore) List(ctx context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Book, len(s.books))
	copy(out, s.books)

	return out, nil
}

func (s *MemoryBookStore) Add(ctx context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append(s.books, *book)
	return nil
}

var seedBooks = []models.Book{
	{Title: "The Hitchhiker's Guide to the Galaxy", Author: "Douglas Adams", Description: "A reluctant earthling tours the galaxy after his planet is demolished.", Year: 1979},
	{Title: "Dune", Author: "Frank Herbert", Description: "A young noble becomes entangled in the politics of a desert planet and its spice.", Year: 1965},
	{Title: "Neuromancer", Author: "William Gibson", Description: "A washed-up hacker is hired for one last run against an artificial intelligence.", Year: 1984},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Description: "An envoy navigates politics and friendship on a planet with no fixed gender.", Year: 1969},
	{Title: "Snow Crash", Author: "Neal Stephenson", Description: "A pizza courier and hacker chases a virus that crashes minds in the metaverse.", Year: 1992},
	{Title: "Foundation", Author: "Isaac Asimov", Description: "A mathematician plots to shorten a galactic dark age with predictive history.", Year: 1951},
}
