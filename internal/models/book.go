package models

import "time"

type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Year        int       `json:"year,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year,omitempty"`
}

type ListBooksResponse struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
}

type RecommendRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

type RecommendResponse struct {
	Recommendations []Book `json:"recommendations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
