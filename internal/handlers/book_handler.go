package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/models"
	"github.com/bookrack/bookrack/internal/service"
)

type BookHandler struct {
	bookService *service.BookService
	log         *logger.Logger
}

func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		log:         logger.New("book-handler"),
	}
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.List(r.Context())
	if err != nil {
		h.log.Error("Failed to list books: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list books")
		return
	}

	respondJSON(w, http.StatusOK, models.ListBooksResponse{
		Books: books,
		Total: len(books),
	})
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.bookService.Add(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrAuthorRequired) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("Failed to add book: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to add book")
		return
	}

	respondJSON(w, http.StatusCreated, book)
}
