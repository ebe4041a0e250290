package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tongxing977-max/project50k-backend/internal/auth"
	"github.com/tongxing977-max/project50k-backend/internal/core"
)

type authResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.deps.Users.GetUserByUsername(r.Context(), req.Username); err == nil {
		writeError(w, http.StatusConflict, "username already taken")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		writeDomainError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := s.deps.Users.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := s.deps.Tokens.GenerateToken(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("User registered", "user_id", id, "username", req.Username)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, UserID: id, Username: req.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.deps.Users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeDomainError(w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.deps.Tokens.GenerateToken(user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, UserID: user.ID, Username: user.Username})
}
