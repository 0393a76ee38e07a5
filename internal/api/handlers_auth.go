package api

import (
	"net/http"

	"github.com/rustyeddy/tradelog/journal"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *journal.User `json:"user"`
}

// POST /api/auth/register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	created(w, u)
}

// POST /api/auth/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, loginResponse{Token: token, User: u})
}

type passwordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// PUT /api/auth/password
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req passwordChange
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.auth.ChangePassword(r.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Status: "success", Message: "password changed"})
}

// GET /api/settings
func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.auth.Settings(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, st)
}

// PATCH /api/settings
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var p journal.SettingsPatch
	if err := decode(r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.auth.UpdateSettings(r.Context(), uid, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, st)
}
