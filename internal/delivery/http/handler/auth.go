package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/price-tracker/internal/delivery/http/middleware"
	"github.com/user/price-tracker/internal/delivery/http/request"
	"github.com/user/price-tracker/internal/delivery/http/response"
	"github.com/user/price-tracker/internal/entity"
)

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req request.CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, session, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, h.authResponse(user, session))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req request.CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.authResponse(user, session))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.SessionFrom(r.Context())); err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(r.Context(), middleware.SessionFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewUserResponse(user, h.auth.IsAdmin(user)))
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req request.BankDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.auth.UpdateBankDetails(r.Context(), middleware.SessionFrom(r.Context()), chi.URLParam(r, "id"), req.Details())
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewUserResponse(user, h.auth.IsAdmin(user)))
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	out := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, response.NewUserResponse(u, h.auth.IsAdmin(u)))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) authResponse(user *entity.User, session *entity.Session) response.AuthResponse {
	return response.AuthResponse{
		User:      response.NewUserResponse(user, session.IsAdmin),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
