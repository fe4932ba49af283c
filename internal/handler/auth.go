package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-club-manager/internal/config"
	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/utils"
)

// StaffStore persists staff accounts.
type StaffStore interface {
	CreateStaff(ctx context.Context, email, fullName, password, role string, cost int) (uuid.UUID, error)
	GetStaffByEmail(ctx context.Context, email string) (model.Staff, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (model.Staff, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, staffID uuid.UUID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Staff  StaffStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, s StaffStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Staff: s, Tokens: t}
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type staffPart struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

type authResp struct {
	Staff   staffPart `json:"staff"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

// issue creates a token pair for s and stores the refresh hash.
func (h *AuthHandler) issue(ctx context.Context, s model.Staff) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, s.ID, s.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, s.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, model.StoreFailure("save refresh token", err)
	}
	return authResp{
		Staff:   staffPart{ID: s.ID, Email: s.Email, FullName: s.FullName, Role: s.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// callerIsManager reports whether the request carries a valid MANAGER
// access token.  The register route is public, so JWTAuth has not run.
func (h *AuthHandler) callerIsManager(c echo.Context) bool {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	_, role, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(authHeader, "Bearer "))
	return err == nil && role == model.RoleManager
}

// Register creates a staff account and returns tokens immediately.
// Anonymous callers always get STAFF.  MANAGER accounts are created by an
// existing manager or through the configured bootstrap email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	role := model.RoleStaff
	switch {
	case h.Cfg.BootstrapManagerEmail != "" && req.Email == h.Cfg.BootstrapManagerEmail:
		role = model.RoleManager
	case req.Role == model.RoleManager:
		if !h.callerIsManager(c) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only a manager can create manager accounts"})
		}
		role = model.RoleManager
	}

	ctx, cancel := requestCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	id, err := h.Staff.CreateStaff(ctx, req.Email, strings.TrimSpace(req.FullName), req.Password, role, h.Cfg.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		err = model.InvalidArgumentf("%s", err.Error())
	}
	if err != nil {
		return writeError(c, err)
	}
	s, err := h.Staff.GetStaffByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.issue(ctx, s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	s, err := h.Staff.GetStaffByEmail(ctx, req.Email)
	if err != nil {
		if model.IsNotFound(err) {
			return unauthorized(c, "invalid credentials")
		}
		return writeError(c, err)
	}
	if !s.IsActive || !utils.VerifyPassword(s.PasswordHash, req.Password) {
		return unauthorized(c, "invalid credentials")
	}
	resp, err := h.issue(ctx, s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates a refresh token by hash, revokes it and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	hash := utils.HashRefreshRaw(req.RefreshToken)

	ctx, cancel := requestCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	staffID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return unauthorized(c, "invalid refresh")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return writeError(c, model.StoreFailure("revoke refresh token", err))
	}
	s, err := h.Staff.GetStaffByID(ctx, staffID)
	if err != nil {
		if model.IsNotFound(err) {
			return unauthorized(c, "invalid refresh")
		}
		return writeError(c, err)
	}
	resp, err := h.issue(ctx, s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token without rotating the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	staffID, err := h.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(req.RefreshToken))
	if err != nil {
		return unauthorized(c, "invalid refresh")
	}
	s, err := h.Staff.GetStaffByID(ctx, staffID)
	if err != nil {
		if model.IsNotFound(err) {
			return unauthorized(c, "invalid refresh")
		}
		return writeError(c, err)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, s.ID, s.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes one session or all of them.  A refresh_token in the body
// revokes that token; otherwise a valid bearer access token revokes every
// refresh token of its staff member.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := requestCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return unauthorized(c, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return writeError(c, model.StoreFailure("revoke refresh token", err))
		}
		return c.NoContent(http.StatusNoContent)
	}

	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
	}
	staffID, _, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return unauthorized(c, "unauthorized")
	}
	if err := h.Tokens.RevokeAllForStaff(ctx, staffID); err != nil {
		return writeError(c, model.StoreFailure("revoke refresh tokens", err))
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated staff member's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	id := currentStaff(c)
	if id == nil {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := requestCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	s, err := h.Staff.GetStaffByID(ctx, *id)
	if err != nil {
		if model.IsNotFound(err) {
			return unauthorized(c, "unauthorized")
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, staffPart{ID: s.ID, Email: s.Email, FullName: s.FullName, Role: s.Role})
}
