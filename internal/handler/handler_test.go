package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallboard/config"
	"wallboard/internal/handler"
	"wallboard/internal/model"
	"wallboard/internal/model/requestresponse"
	"wallboard/internal/realtime"
	"wallboard/internal/security"
	"wallboard/internal/service"
	"wallboard/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *chi.Mux
	store  *testutil.MemoryStore
	clock  *testutil.StubClock
	hub    *realtime.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := testutil.FixedClock()
	store := testutil.NewMemoryStore(clock)
	ids := testutil.NewStubIDGenerator()
	hub := realtime.NewHub()
	tx := testutil.NoopTxManager{}

	jwtService := security.NewJWTService(&config.JWTConfig{
		SecretKey:       "handler-test-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "1h",
	})

	authService := service.NewAuthenticationService(tx, store.Tokens(), jwtService, store.Users(), ids)
	boardService := service.NewBoardService(tx, store.Boards(), store.Shared(), testutil.NewMemoryCache(), testutil.NewMemoryStorage(), hub, ids, config.CanvasConfig{})
	accessService := service.NewAccessService(tx, boardService, store.Grants(), store.Shared(), store.AccessCodes(), store.Users(),
		hub, clock, config.AccessCodeConfig{Length: 6, TTL: 24 * time.Hour, MaxAttempts: 5})
	problemService := service.NewProblemService(tx, store.Problems(), boardService, accessService, hub, ids)

	router := chi.NewRouter()
	handler.RegisterRoutes(router, handler.Handlers{
		Auth:     handler.NewAuthenticationHandler(authService, jwtService),
		Boards:   handler.NewBoardHandler(boardService, accessService, hub, 5<<20, 5*time.Second),
		Problems: handler.NewProblemHandler(problemService, boardService, 0),
		Access:   handler.NewAccessHandler(accessService),
	}, store.Tokens(), jwtService)

	return &testEnv{router: router, store: store, clock: clock, hub: hub}
}

type request struct {
	method  string
	path    string
	token   string
	body    any
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(req.method, req.path, body)
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// signUp : registers email and returns its session
func (e *testEnv) signUp(t *testing.T, email string) requestresponse.SessionData {
	t.Helper()
	rec := e.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body:   requestresponse.SignUpRequest{Email: email, Password: "Crimp1234"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[requestresponse.SessionResponse](t, rec).Response
}

func (e *testEnv) anonymous(t *testing.T) requestresponse.SessionData {
	t.Helper()
	rec := e.do(t, request{method: http.MethodPost, path: "/api/auth/anonymous"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[requestresponse.SessionResponse](t, rec).Response
}

func (e *testEnv) upload(t *testing.T, token, name string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("name", name))
	part, err := form.CreateFormFile("file", "wall.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.PNG(t, 40, 20))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/boards", &buf)
	r.Header.Set("Content-Type", form.FormDataContentType())
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func (e *testEnv) board(t *testing.T, token, name string) requestresponse.BoardResponse {
	t.Helper()
	rec := e.upload(t, token, name)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[requestresponse.BoardResponse](t, rec)
}

func (e *testEnv) accessCode(t *testing.T, token, boardUUID string, level model.AccessLevel) string {
	t.Helper()
	rec := e.do(t, request{
		method: http.MethodPost,
		path:   "/api/boards/" + boardUUID + "/codes",
		token:  token,
		body:   requestresponse.CreateAccessCodeRequest{Level: string(level)},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[requestresponse.AccessCodeResponse](t, rec).Response.Code
}

func problemBody(name, grade string) requestresponse.SaveProblemRequest {
	return requestresponse.SaveProblemRequest{
		Name:  name,
		Grade: grade,
		Holds: []model.Hold{
			{XRatio: 0.25, YRatio: 0.75, Type: model.HoldStart},
			{XRatio: 0.5, YRatio: 0.2, Type: model.HoldFinish},
		},
	}
}
