package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"filesmanager/internal/common"
	"filesmanager/internal/server/models"
)

// tokenHeader carries the opaque session token on authenticated requests.
const tokenHeader = "X-Token"

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, common.ErrorInvalidPayload)
		return
	}

	user, err := s.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Basic ")
	if !ok {
		s.writeError(ctx, w, common.ErrorMalformedCredentials)
		return
	}

	token, err := s.auth.Login(ctx, payload)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.auth.Logout(ctx, r.Header.Get(tokenHeader)); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.auth.ResolveUser(ctx, r.Header.Get(tokenHeader))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	user, err := s.auth.GetUser(ctx, userID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
}
