package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bookrack/bookrack/internal/database"
	"github.com/bookrack/bookrack/internal/models"
)

type PostgresBookStore struct {
	db *database.Pool
}

func NewPostgresBookStore(db *database.Pool) *PostgresBookStore {
	return &PostgresBookStore{db: db}
}

func (s *PostgresBookStore) List(ctx context.Context) ([]models.Book, error) {
	query := `
		SELECT id, title, author, COALESCE(description, ''), COALESCE(year, 0), created_at
		FROM books
		ORDER BY created_at, title
	`

	rows, err := s.db.DB().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Year, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}

	return books, nil
}

func (s *PostgresBookStore) Add(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (id, title, author, description, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.DB().Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.Year,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}

	return nil
}
