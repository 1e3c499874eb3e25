package handler_test

import (
	"net/http"
	"testing"

	"wallboard/internal/model/requestresponse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndCurrentUser(t *testing.T) {
	env := newTestEnv(t)

	session := env.signUp(t, "Climber@Example.com")
	assert.Equal(t, "climber@example.com", session.Email)
	assert.False(t, session.Anonymous)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)

	rec := env.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: session.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[requestresponse.CurrentUserResponse](t, rec)
	assert.Equal(t, session.UserUUID, me.Response.UserUUID)
	assert.Equal(t, "climber@example.com", me.Response.Email)

	rec = env.do(t, request{method: http.MethodHead, path: "/api/auth/me", token: session.AccessToken})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCurrentUser_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, request{method: http.MethodGet, path: "/api/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignUp_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "taken@example.com")

	tests := []struct {
		name string
		body any
		code int
	}{
		{"duplicate email", requestresponse.SignUpRequest{Email: "taken@example.com", Password: "Crimp1234"}, http.StatusConflict},
		{"weak password", requestresponse.SignUpRequest{Email: "new@example.com", Password: "short"}, http.StatusBadRequest},
		{"bad email", requestresponse.SignUpRequest{Email: "nope", Password: "Crimp1234"}, http.StatusBadRequest},
		{"malformed json", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, request{method: http.MethodPost, path: "/api/auth/signup", body: tt.body})
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "climber@example.com")

	rec := env.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth",
		body:   requestresponse.LoginRequest{Email: "climber@example.com", Password: "Crimp1234"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "climber@example.com", decode[requestresponse.SessionResponse](t, rec).Response.Email)

	rec = env.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth",
		body:   requestresponse.LoginRequest{Email: "climber@example.com", Password: "Wrong1234"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth",
		body:   requestresponse.LoginRequest{Email: "fresh@example.com", Password: "Crimp1234", Register: true},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "fresh@example.com", decode[requestresponse.SessionResponse](t, rec).Response.Email)
}

func TestLogout_ClosesSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.signUp(t, "climber@example.com")

	rec := env.do(t, request{method: http.MethodDelete, path: "/api/auth/" + session.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: session.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	session := env.signUp(t, "climber@example.com")

	rec := env.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		token:  session.AccessToken,
		body:   requestresponse.RefreshTokenRequest{RefreshToken: session.RefreshToken},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decode[requestresponse.SessionResponse](t, rec).Response
	assert.Equal(t, session.UserUUID, refreshed.UserUUID)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)

	// a refresh token works once
	rec = env.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		token:  session.AccessToken,
		body:   requestresponse.RefreshTokenRequest{RefreshToken: session.RefreshToken},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignInAnonymously(t *testing.T) {
	env := newTestEnv(t)

	session := env.anonymous(t)

	assert.True(t, session.Anonymous)
	assert.Empty(t, session.Email)
	rec := env.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: session.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[requestresponse.CurrentUserResponse](t, rec).Response.Anonymous)
}
