package handler

import (
	"net/http"
	"strings"

	"wallboard/internal/model"
	"wallboard/internal/model/requestresponse"
	"wallboard/internal/ports"
	"wallboard/internal/security"
	"wallboard/internal/util"

	"github.com/go-chi/chi/v5"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
	ports.JWTServiceInterface
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationService,
	jwtServiceInterface ports.JWTServiceInterface,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService,
		jwtServiceInterface,
	}
}

// Login godoc
// @Summary Sign in with email and password
// @Description With register=true an unknown email is signed up instead of rejected.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Credentials"
// @Success 200 {object} requestresponse.SessionResponse
// @Failure 400 {object} requestresponse.ErrorDetail "Malformed body"
// @Failure 401 {object} requestresponse.ErrorDetail "Wrong email or password"
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/auth [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	session, err := h.AuthenticationService.Login(r.Context(), req.Email, req.Password, req.Register, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SessionResponseFromModel(session))
}

// SignUp godoc
// @Summary Register a new account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignUpRequest true "Credentials"
// @Success 201 {object} requestresponse.SessionResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 409 {object} requestresponse.ErrorDetail "Email already registered"
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/auth/signup [post]
func (h *AuthenticationHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SignUpRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	session, err := h.AuthenticationService.SignUp(r.Context(), req.Email, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.SessionResponseFromModel(session))
}

// SignInAnonymously godoc
// @Summary Start an anonymous session
// @Description Anonymous users can browse and redeem codes but are never treated as signed in.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.SessionResponse
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/auth/anonymous [post]
func (h *AuthenticationHandler) SignInAnonymously(w http.ResponseWriter, r *http.Request) {
	session, err := h.AuthenticationService.SignInAnonymously(r.Context(), r.UserAgent(), r.RemoteAddr)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SessionResponseFromModel(session))
}

// GetCurrentUser godoc
// @Summary Identity behind the access token
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorDetail
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	var resp requestresponse.CurrentUserResponse
	resp.Response.UserUUID = claims.UserUUID
	resp.Response.Email = claims.Email
	resp.Response.Anonymous = claims.Anonymous

	util.WriteJSON(w, http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary Exchange a token pair for a new one
// @Description The access token may be expired. Each refresh token works once and only from the same User-Agent.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Refresh token"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SessionResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		util.HandleServiceError(w, model.ErrUnauthenticated)
		return
	}
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	var req requestresponse.RefreshTokenRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	session, err := h.AuthenticationService.RefreshToken(r.Context(), r.UserAgent(), r.RemoteAddr, accessToken, req.RefreshToken)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SessionResponseFromModel(session))
}

// Logout godoc
// @Summary Close the session behind an access token
// @Tags Authentication
// @Produce json
// @Param token path string true "Access token (JWT)"
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/auth/{token} [delete]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken := chi.URLParam(r, "token")

	claims, err := h.JWTServiceInterface.ParseAccessToken(accessToken)
	if err != nil {
		util.HandleError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := h.AuthenticationService.Logout(r.Context(), claims.RefreshTokenUUID); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "signed out"})
}
