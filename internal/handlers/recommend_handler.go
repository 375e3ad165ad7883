package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/models"
	"github.com/bookrack/bookrack/internal/recommend"
)

type RecommendHandler struct {
	recommender *recommend.Recommender
	log         *logger.Logger
}

func NewRecommendHandler(recommender *recommend.Recommender) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
		log:         logger.New("recommend-handler"),
	}
}

func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	books, err := h.recommender.Recommend(r.Context(), req.Text, req.Limit)
	if err != nil {
		h.log.Error("Failed to recommend: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to compute recommendations")
		return
	}

	respondJSON(w, http.StatusOK, models.RecommendResponse{Recommendations: books})
}

func (h *RecommendHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
