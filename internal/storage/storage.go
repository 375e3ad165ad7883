package storage

import (
	"context"
	"errors"

	"github.com/bookrack/bookrack/internal/models"
	"github.com/bookrack/bookrack/internal/models/user"
)

var ErrDuplicateUser = errors.New("user with this email already exists")

// UserStore holds credential records. Lookups return (nil, nil) when no
// record matches. Create is an atomic insert-if-absent: for concurrent
// calls with the same email exactly one succeeds, the rest observe
// ErrDuplicateUser. Callers hash the password before calling Create so
// no implementation ever holds its lock across bcrypt.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
}

type BookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	Add(ctx context.Context, book *models.Book) error
}
