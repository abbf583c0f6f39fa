package handler

import (
	"net/http"

	"github.com/paharnama-dev/paharnama/internal/service"
)

type registerRequest struct {
	Email     string `validate:"required,email" json:"email"`
	Password  string `validate:"required,min=8" json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type verifyEmailRequest struct {
	Token string `validate:"required" json:"token"`
}

type resendVerificationRequest struct {
	Email string `validate:"required,email" json:"email"`
}

type refreshRequest struct {
	RefreshToken string `validate:"required" json:"refreshToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `validate:"required" json:"currentPassword"`
	NewPassword     string `validate:"required,min=8" json:"newPassword"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	profile, err := h.auth.Register(service.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusCreated, "Registration successful. Please check your email to verify your account", profile)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	pair, profile, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":   profile,
		"tokens": pair,
	})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.VerifyEmail(req.Token); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Email verified successfully. You can log in now", nil)
}

// ResendVerification answers identically for known and unknown emails.
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ResendVerification(req.Email); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "If an account with that email exists, a verification link has been sent", nil)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Tokens refreshed", pair)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := claims(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.Logout(c.UserId); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	c, err := claims(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req changePasswordRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ChangePassword(c.UserId, req.CurrentPassword, req.NewPassword); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Password changed successfully. Please log in again", nil)
}

// Profile returns the authenticated user's own account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	c, err := claims(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	profile, err := h.users.UserById(c.UserId)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "", profile)
}
