package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/photoflow/photoflow-go/internal/middleware"
	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/service"
)

// AuthHandler exposes registration, login, and profile maintenance over
// HTTP. Login and profile updates both set the session cookie; logout
// clears it.
type AuthHandler struct {
	service       *service.AuthService
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc *service.AuthService, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleRegister handles POST /api/v1/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	if err := h.service.Register(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "registration successful"})
}

// HandleLogin handles POST /api/v1/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	h.setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusOK, resp)
}

// HandleLogout handles POST /api/v1/auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe handles GET /api/v1/auth/me. It re-reads the user from storage
// so the response reflects updates made after the token was issued.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	user, err := h.service.CurrentUser(r.Context(), sessionUser.Email)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleChangePassword handles POST /api/v1/auth/password.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ChangePasswordRequest
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	err := h.service.ChangePassword(r.Context(), sessionUser.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// HandleUpdateProfile handles PUT /api/v1/auth/profile. On success the
// session token is re-issued so its embedded snapshot stays current.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ProfileUpdate
	if !decodeJSON(w, r, &req, 1<<20) {
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), sessionUser.Email, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidSlug), errors.Is(err, service.ErrBioTooLong):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	h.setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusOK, resp)
}
