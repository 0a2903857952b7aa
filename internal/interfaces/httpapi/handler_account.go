package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type createAccountRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.fail(ctx, w, "login", err, "username", req.Username)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loginDTO{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Principal: principalToDTO(result.Principal),
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal, err := mustPrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, principalToDTO(principal))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangePassword")
	defer span.End()

	principal, err := mustPrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req changePasswordRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err = h.accounts.ChangePassword(ctx, usecase.ChangePasswordInput{
		UserID:          principal.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.fail(ctx, w, "change password", err, "user_id", principal.UserID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"changed": true})
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAccount")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createAccountRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	user, err := h.accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		PlayerID: playerID,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.fail(ctx, w, "create account", err, "player_id", playerID)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, userToDTO(user))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetPassword")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req resetPasswordRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	user, err := h.accounts.ResetPassword(ctx, playerID, req.Password)
	if err != nil {
		h.fail(ctx, w, "reset password", err, "player_id", playerID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, userToDTO(user))
}
