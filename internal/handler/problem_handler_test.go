package handler_test

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"testing"

	"wallboard/internal/model"
	"wallboard/internal/model/requestresponse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProblem_WhoCanEdit(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signUp(t, "owner@example.com")
	editor := env.signUp(t, "editor@example.com")
	stranger := env.signUp(t, "stranger@example.com")
	board := env.board(t, owner.AccessToken, "wall")
	editCode := env.accessCode(t, owner.AccessToken, board.UUID, model.AccessEdit)
	readCode := env.accessCode(t, owner.AccessToken, board.UUID, model.AccessRead)

	rec := env.do(t, request{
		method: http.MethodPost,
		path:   "/api/boards/" + board.UUID + "/permissions",
		token:  owner.AccessToken,
		body:   requestresponse.GrantRequest{Email: "editor@example.com", Level: "edit"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	withCode := func(code string) requestresponse.SaveProblemRequest {
		body := problemBody("Crimps", "V3")
		body.GuestCode = code
		return body
	}

	tests := []struct {
		name    string
		token   string
		body    requestresponse.SaveProblemRequest
		headers map[string]string
		code    int
	}{
		{"owner", owner.AccessToken, problemBody("Crimps", "V3"), nil, http.StatusCreated},
		{"edit grant", editor.AccessToken, problemBody("Crimps", "V3"), nil, http.StatusCreated},
		{"edit code in body", "", withCode(editCode), nil, http.StatusCreated},
		{"edit code in header", "", problemBody("Crimps", "V3"), map[string]string{"X-Guest-Code": editCode}, http.StatusCreated},
		{"read code", "", withCode(readCode), nil, http.StatusForbidden},
		{"stranger", stranger.AccessToken, problemBody("Crimps", "V3"), nil, http.StatusForbidden},
		{"nobody", "", problemBody("Crimps", "V3"), nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, request{
				method:  http.MethodPost,
				path:    "/api/boards/" + board.UUID + "/problems",
				token:   tt.token,
				body:    tt.body,
				headers: tt.headers,
			})
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateProblem_Validation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signUp(t, "owner@example.com")
	board := env.board(t, owner.AccessToken, "wall")

	noHolds := problemBody("Empty", "V0")
	noHolds.Holds = nil
	outside := problemBody("Outside", "V0")
	outside.Holds[0].XRatio = 1.5
	badType := problemBody("Odd", "V0")
	badType.Holds[0].Type = "foot"

	for name, body := range map[string]requestresponse.SaveProblemRequest{
		"no name":       problemBody("", "V1"),
		"no holds":      noHolds,
		"ratio outside": outside,
		"unknown hold":  badType,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, request{
				method: http.MethodPost,
				path:   "/api/boards/" + board.UUID + "/problems",
				token:  owner.AccessToken,
				body:   body,
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := env.do(t, request{
		method: http.MethodPost,
		path:   "/api/boards/missing/problems",
		token:  owner.AccessToken,
		body:   problemBody("Lost", "V1"),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProblems(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signUp(t, "owner@example.com")
	board := env.board(t, owner.AccessToken, "wall")

	for _, p := range []struct{ name, grade string }{{"hard", "V7"}, {"open", ""}, {"easy", "V1"}} {
		rec := env.do(t, request{
			method: http.MethodPost,
			path:   "/api/boards/" + board.UUID + "/problems",
			token:  owner.AccessToken,
			body:   problemBody(p.name, p.grade),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	names := func(resp requestresponse.ListProblemsResponse) []string {
		out := make([]string, 0, len(resp.Data.Problems))
		for _, p := range resp.Data.Problems {
			out = append(out, p.Name)
		}
		return out
	}

	rec := env.do(t, request{method: http.MethodGet, path: "/api/boards/" + board.UUID + "/problems"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"easy", "open", "hard"}, names(decode[requestresponse.ListProblemsResponse](t, rec)))

	rec = env.do(t, request{method: http.MethodGet, path: "/api/boards/" + board.UUID + "/problems?sort=grade"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"open", "easy", "hard"}, names(decode[requestresponse.ListProblemsResponse](t, rec)))
}

func TestUpdateAndDeleteProblem(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signUp(t, "owner@example.com")
	stranger := env.signUp(t, "stranger@example.com")
	board := env.board(t, owner.AccessToken, "wall")
	editCode := env.accessCode(t, owner.AccessToken, board.UUID, model.AccessEdit)

	rec := env.do(t, request{
		method: http.MethodPost,
		path:   "/api/boards/" + board.UUID + "/problems",
		token:  owner.AccessToken,
		body:   problemBody("Arete", "V2"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[requestresponse.ProblemResponse](t, rec)
	path := "/api/boards/" + board.UUID + "/problems/" + created.UUID

	// a guest with an edit code may change it
	update := problemBody("Arete sit", "V4")
	update.Holds = update.Holds[:1]
	rec = env.do(t, request{method: http.MethodPut, path: path, body: update, headers: map[string]string{"X-Guest-Code": editCode}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[requestresponse.ProblemResponse](t, rec)
	assert.Equal(t, "Arete sit", updated.Name)
	assert.Equal(t, "V4", updated.Grade)
	assert.Len(t, updated.Holds, 1)
	assert.Equal(t, owner.UserUUID, updated.OwnerUUID)

	rec = env.do(t, request{method: http.MethodGet, path: path})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arete sit", decode[requestresponse.ProblemResponse](t, rec).Name)

	rec = env.do(t, request{method: http.MethodDelete, path: path, token: stranger.AccessToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, request{method: http.MethodDelete, path: path})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, request{method: http.MethodDelete, path: path, token: owner.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, request{method: http.MethodGet, path: path})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOverlay(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signUp(t, "owner@example.com")
	board := env.board(t, owner.AccessToken, "wall")

	rec := env.do(t, request{
		method: http.MethodPost,
		path:   "/api/boards/" + board.UUID + "/problems",
		token:  owner.AccessToken,
		body:   problemBody("Arete", "V2"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	path := "/api/boards/" + board.UUID + "/problems/" + decode[requestresponse.ProblemResponse](t, rec).UUID + "/overlay.png"

	rec = env.do(t, request{method: http.MethodGet, path: path + "?display_width=20"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	rec = env.do(t, request{method: http.MethodGet, path: path + "?display_width=-3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOverlay_BoardOverPixelCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// stored before the cap existed
	board := &model.Board{UUID: "huge-board", Name: "huge", OwnerUUID: "someone", ImageWidth: 100000, ImageHeight: 100000}
	require.NoError(t, env.store.Boards().Create(ctx, nil, board))
	problem := &model.Problem{
		UUID:      "huge-problem",
		BoardUUID: board.UUID,
		Name:      "Arete",
		Holds:     model.Holds{{XRatio: 0.5, YRatio: 0.5, Type: model.HoldStart}},
	}
	require.NoError(t, env.store.Problems().Create(ctx, nil, problem))

	rec := env.do(t, request{method: http.MethodGet, path: "/api/boards/huge-board/problems/huge-problem/overlay.png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
