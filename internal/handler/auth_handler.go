package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"doctor-booking-api/internal/auth"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/respond"
	"doctor-booking-api/internal/store"
)

const (
	msgBadCredentials = "invalid email or password"
	msgInactive       = "User account is inactive."
	msgBadRefresh     = "Token is invalid or expired"
)

func (h *Handler) issueTokens(ctx context.Context, u *model.User) (tokenPair, error) {
	access, err := auth.MakeToken(u.ID, u.IsStaff, h.jwt.Secret, h.jwt.AccessTTL)
	if err != nil {
		return tokenPair{}, err
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return tokenPair{}, err
	}
	if _, err := h.store.CreateRefreshToken(ctx, u.ID, hash, time.Now().Add(h.jwt.RefreshTTL)); err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Refresh: raw, Access: access}, nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerIn
	if !decode(w, r, &in) {
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.internal(w, r, "hash password", err)
		return
	}

	u := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respond.JSON(w, http.StatusBadRequest, FieldErrors{"email": {"user with this email already exists."}})
			return
		}
		h.internal(w, r, "create user", err)
		return
	}

	tokens, err := h.issueTokens(r.Context(), u)
	if err != nil {
		h.internal(w, r, "issue tokens", err)
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", u.ID))
	respond.JSON(w, http.StatusCreated, registerOut{
		Refresh:  tokens.Refresh,
		Access:   tokens.Access,
		Username: toUser(u),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginIn
	if err := decodeBody(r, &in); err != nil || check(&in) != nil {
		respond.Detail(w, http.StatusBadRequest, msgBadCredentials)
		return
	}

	u, err := h.store.UserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.internal(w, r, "user by email", err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		respond.Detail(w, http.StatusBadRequest, msgBadCredentials)
		return
	}
	if !u.IsActive {
		respond.Detail(w, http.StatusBadRequest, msgInactive)
		return
	}

	tokens, err := h.issueTokens(r.Context(), u)
	if err != nil {
		h.internal(w, r, "issue tokens", err)
		return
	}
	respond.JSON(w, http.StatusOK, tokens)
}

// Refresh swaps a refresh token for a new pair. Presenting a token that was
// already rotated revokes the whole family.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshIn
	if !decode(w, r, &in) {
		return
	}
	ctx := r.Context()

	rt, err := h.store.GetRefreshTokenByHash(ctx, auth.HashRefreshToken(in.Refresh))
	if errors.Is(err, store.ErrNotFound) {
		respond.Detail(w, http.StatusUnauthorized, msgBadRefresh)
		return
	}
	if err != nil {
		h.internal(w, r, "get refresh token", err)
		return
	}

	if rt.Revoked {
		h.revokeFamily(w, r, rt.UserID)
		return
	}
	if time.Now().After(rt.ExpiresAt) {
		respond.Detail(w, http.StatusUnauthorized, msgBadRefresh)
		return
	}

	u, err := h.store.UserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Detail(w, http.StatusUnauthorized, msgBadRefresh)
			return
		}
		h.internal(w, r, "user by id", err)
		return
	}
	if !u.IsActive {
		respond.Detail(w, http.StatusUnauthorized, msgInactive)
		return
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		h.internal(w, r, "generate refresh token", err)
		return
	}
	if _, err := h.store.RotateRefreshToken(ctx, rt.ID, u.ID, hash, time.Now().Add(h.jwt.RefreshTTL)); err != nil {
		if errors.Is(err, store.ErrTokenSpent) {
			h.revokeFamily(w, r, u.ID)
			return
		}
		h.internal(w, r, "rotate refresh token", err)
		return
	}

	access, err := auth.MakeToken(u.ID, u.IsStaff, h.jwt.Secret, h.jwt.AccessTTL)
	if err != nil {
		h.internal(w, r, "make token", err)
		return
	}
	respond.JSON(w, http.StatusOK, tokenPair{Refresh: raw, Access: access})
}

func (h *Handler) revokeFamily(w http.ResponseWriter, r *http.Request, userID int64) {
	h.log.Warn("refresh token reuse", zap.Int64("user_id", userID))
	if err := h.store.RevokeAllRefreshTokens(r.Context(), userID); err != nil {
		h.internal(w, r, "revoke refresh tokens", err)
		return
	}
	respond.Detail(w, http.StatusUnauthorized, msgBadRefresh)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RevokeAllRefreshTokens(r.Context(), principal(r).UserID); err != nil {
		h.internal(w, r, "revoke refresh tokens", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
