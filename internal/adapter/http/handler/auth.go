package handler

import (
	"context"
	"net/http"

	"fleetmaster/internal/adapter/http/handler/dto"
	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
	"fleetmaster/pkg/validator"
)

const (
	accessCookie  = "access"
	refreshCookie = "refresh"
)

type AuthService interface {
	Register(ctx context.Context, newUser *models.UserCreateRequest) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error)
}

type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type Auth struct {
	auth   AuthService
	tokens TokenService
	l      logger.Logger
}

func NewAuth(auth AuthService, tokens TokenService, l logger.Logger) *Auth {
	return &Auth{
		auth:   auth,
		tokens: tokens,
		l:      l,
	}
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	req := &dto.RegisterUserRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateNewUser(v, req)

	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	id, err := h.auth.Register(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register a new user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"id": id}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	tokens, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	setTokenCookies(w, accessCookie, refreshCookie, tokens)
	h.writeTokenPair(ctx, w, tokens)
}

func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_token")

	refreshToken := requestRefreshToken(w, r, refreshCookie)
	if refreshToken == "" {
		badRequestResponse(w, "refresh token must be provided")
		return
	}

	tokens, err := h.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to refresh token pair", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	setTokenCookies(w, accessCookie, refreshCookie, tokens)
	h.writeTokenPair(ctx, w, tokens)
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "logout_user")

	identity := models.IdentityFromContext(ctx)
	if identity.Kind != models.IdentityOwner {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.auth.Logout(ctx, identity.User.ID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to logout user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	clearTokenCookies(w, accessCookie, refreshCookie)

	response := envelope{"message": "logged out"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_me")

	identity := models.IdentityFromContext(ctx)
	if identity.Kind != models.IdentityOwner {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, profile, err := h.auth.Me(ctx, identity.User.ID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load account", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"user":    user,
		"profile": profile,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Auth) writeTokenPair(ctx context.Context, w http.ResponseWriter, tokens *models.TokenPair) {
	response := envelope{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// requestRefreshToken takes the refresh token from the request body when one
// is supplied, otherwise from the named cookie. Browser clients rely on the
// cookie; API clients send the body.
func requestRefreshToken(w http.ResponseWriter, r *http.Request, cookieName string) string {
	req := &dto.RefreshTokenRequest{}
	if err := readJSON(w, r, req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func setTokenCookies(w http.ResponseWriter, accessName, refreshName string, tokens *models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessName,
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshName,
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookies(w http.ResponseWriter, names ...string) {
	for _, name := range names {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
