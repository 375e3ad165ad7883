package service

import (
	"context"
	"errors"
	"time"

	"github.com/bookrack/bookrack/internal/cache"
	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/models"
	"github.com/bookrack/bookrack/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrAuthorRequired = errors.New("author is required")
)

const booksCacheKey = "books:all"

type BookService struct {
	store storage.BookStore
	cache *cache.Cache
	log   *logger.Logger
}

func NewBookService(store storage.BookStore, bookCache *cache.Cache) *BookService {
	return &BookService{
		store: store,
		cache: bookCache,
		log:   logger.New("book-service"),
	}
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	var cached []models.Book
	found, err := s.cache.GetJSON(ctx, booksCacheKey, &cached)
	if err != nil {
		s.log.Warn("Failed to read book cache: %v", err)
	}
	if found && err == nil {
		return cached, nil
	}

	books, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, booksCacheKey, books); err != nil {
		s.log.Warn("Failed to populate book cache: %v", err)
	}

	return books, nil
}

func (s *BookService) Add(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.Author == "" {
		return nil, ErrAuthorRequired
	}

	book := &models.Book{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Year:        req.Year,
		CreatedAt:   time.Now(),
	}

	if err := s.store.Add(ctx, book); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, booksCacheKey); err != nil {
		s.log.Warn("Failed to invalidate book cache: %v", err)
	}

	return book, nil
}
