package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/middleware"
	"github.com/bookrack/bookrack/internal/models/user"
	"github.com/bookrack/bookrack/internal/service"
)

// Reason strings are part of the API contract; clients match on them.
const (
	reasonUserExists    = "User already exists"
	reasonCreateUser    = "Problems creating user"
	reasonCreateToken   = "Problems creating token"
	reasonUserNotFound  = "User does not exist"
	reasonWrongPassword = "Password is incorrect"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         logger.New("auth-handler"),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req user.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Debug("Signup rejected: %v", err)
		respondError(w, http.StatusBadRequest, signupReason(err))
		return
	}

	respondJSON(w, http.StatusOK, user.TokenResponse{AccessToken: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req user.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, reasonUserNotFound)
		case errors.Is(err, service.ErrWrongPassword):
			respondError(w, http.StatusBadRequest, reasonWrongPassword)
		case errors.Is(err, service.ErrSignToken):
			respondError(w, http.StatusBadRequest, reasonCreateToken)
		default:
			h.log.Error("Login failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, user.TokenResponse{AccessToken: token})
}

// Me runs behind the route guard, so a nil user here means a wiring bug;
// it is still answered with 401 rather than a panic.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	u := middleware.UserFromContext(r.Context())
	if u == nil {
		http.Error(w, "Not Authorized", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, user.MeResponse{User: u.Public()})
}

func signupReason(err error) string {
	switch {
	case errors.Is(err, service.ErrUserExists):
		return reasonUserExists
	case errors.Is(err, service.ErrSignToken):
		return reasonCreateToken
	case errors.Is(err, service.ErrCreateUser):
		return reasonCreateUser
	default:
		// Validation errors carry their own user-facing message.
		return err.Error()
	}
}
