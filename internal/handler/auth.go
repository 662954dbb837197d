package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrdine/qrdine/internal/domain/user"
)

// Tokens are not real credentials: the panel only checks for presence, and
// no middleware validates them server-side.
const dummyToken = "dummy-token"

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		respondFail(w, http.StatusBadRequest, "Full name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		respondError(w, r, "Failed to register user", err)
		return
	}

	created, err := h.users.Create(r.Context(), &user.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
	})
	switch {
	case errors.Is(err, user.ErrEmailTaken):
		respondFail(w, http.StatusBadRequest, "User with this email already exists")
	case err != nil:
		respondError(w, r, "Failed to register user", err)
	default:
		respondMessage(w, "User registered successfully", toUserDTO(*created))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	userDTO
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		respondFail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		respondError(w, r, "Failed to log in", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		respondFail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	respondMessage(w, "Login successful", loginResponse{
		userDTO: toUserDTO(*u),
		Token:   dummyToken,
	})
}
