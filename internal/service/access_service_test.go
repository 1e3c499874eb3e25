package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"wallboard/internal/model"
	"wallboard/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLevel(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	reader := f.user(t, "reader", "reader@example.com")
	stranger := f.user(t, "stranger", "stranger@example.com")
	board := f.board(t, owner, "wall")
	_, err := f.access.GrantByEmail(owner, board.UUID, "reader@example.com", model.AccessRead)
	require.NoError(t, err)
	code, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessEdit)
	require.NoError(t, err)

	tests := []struct {
		name    string
		ctx     context.Context
		code    string
		level   model.AccessLevel
		owner   bool
		canEdit bool
	}{
		{"owner", owner, "", model.AccessEdit, true, true},
		{"read grant", reader, "", model.AccessRead, false, false},
		{"stranger", stranger, "", model.AccessNone, false, false},
		{"guest with code", context.Background(), code.Code, model.AccessEdit, false, true},
		{"guest code lowercase", context.Background(), "  " + strings.ToLower(code.Code), model.AccessEdit, false, true},
		{"anonymous with code", anonymous("anon"), code.Code, model.AccessEdit, false, true},
		{"guest without code", context.Background(), "", model.AccessNone, false, false},
		{"unknown code", context.Background(), "OOOOOO", model.AccessNone, false, false},
		// a signed-in user is judged by grants, never by a code
		{"signed in with code", stranger, code.Code, model.AccessNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standing, err := f.access.AccessLevel(tt.ctx, board.UUID, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.level, standing.Level)
			assert.Equal(t, tt.owner, standing.Owner)
			assert.Equal(t, tt.canEdit, standing.CanEdit)
		})
	}
}

func TestCreateAccessCode_OwnerOnly(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	stranger := f.user(t, "stranger", "stranger@example.com")
	board := f.board(t, owner, "wall")

	_, err := f.access.CreateAccessCode(stranger, board.UUID, model.AccessRead)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	_, err = f.access.CreateAccessCode(context.Background(), board.UUID, model.AccessRead)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = f.access.CreateAccessCode(owner, board.UUID, model.AccessLevel("admin"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	code, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessRead)
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.Equal(t, "owner", code.CreatedBy)
	require.NotNil(t, code.ExpiresAt)
}

func TestRedeemCode(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	board := f.board(t, owner, "Cave")
	code, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessRead)
	require.NoError(t, err)

	redeemed, err := f.access.RedeemCode(context.Background(), code.Code)

	require.NoError(t, err)
	assert.Equal(t, &model.RedeemedCode{Code: code.Code, Level: model.AccessRead, BoardUUID: board.UUID, BoardName: "Cave"}, redeemed)
}

func TestRedeemCode_Errors(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	board := f.board(t, owner, "wall")
	code, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessRead)
	require.NoError(t, err)

	_, err = f.access.RedeemCode(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.access.RedeemCode(context.Background(), "NOPE99")
	assert.ErrorIs(t, err, model.ErrAccessCodeNotFound)

	f.clock.Advance(25 * time.Hour)
	_, err = f.access.RedeemCode(context.Background(), code.Code)
	assert.ErrorIs(t, err, model.ErrAccessCodeExpired)

	standing, err := f.access.AccessLevel(context.Background(), board.UUID, code.Code)
	require.NoError(t, err)
	assert.Equal(t, model.AccessNone, standing.Level)
}

func TestGrantByEmail(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	f.user(t, "friend", "friend@example.com")
	board := f.board(t, owner, "wall")

	grant, err := f.access.GrantByEmail(owner, board.UUID, "Friend@Example.com", model.AccessEdit)

	require.NoError(t, err)
	assert.Equal(t, "friend", grant.UserUUID)
	assert.Equal(t, model.AccessEdit, grant.Level)

	refs, err := f.boards.ListSharedRefs(context.Background(), "friend")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, board.UUID, refs[0].BoardUUID)

	topics := f.publisher.Topics()
	assert.Contains(t, topics, realtime.SharedBoardsTopic("friend"))
	assert.Contains(t, topics, realtime.BoardUsersTopic(board.UUID))
}

func TestGrantByEmail_Rejections(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	board := f.board(t, owner, "wall")

	_, err := f.access.GrantByEmail(owner, board.UUID, "owner@example.com", model.AccessEdit)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.access.GrantByEmail(owner, board.UUID, "nobody@example.com", model.AccessEdit)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestRevokeGrant(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	friend := f.user(t, "friend", "friend@example.com")
	board := f.board(t, owner, "wall")
	_, err := f.access.GrantByEmail(owner, board.UUID, "friend@example.com", model.AccessEdit)
	require.NoError(t, err)

	assert.ErrorIs(t, f.access.RevokeGrant(friend, board.UUID, "friend"), model.ErrAccessDenied)
	require.NoError(t, f.access.RevokeGrant(owner, board.UUID, "friend"))

	grants, err := f.access.ListGrants(owner, board.UUID)
	require.NoError(t, err)
	assert.Empty(t, grants)
	refs, err := f.boards.ListSharedRefs(context.Background(), "friend")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestPromoteGuest(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	guest := f.user(t, "guest", "guest@example.com")
	board := f.board(t, owner, "wall")
	code, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessEdit)
	require.NoError(t, err)

	grant, err := f.access.PromoteGuest(guest, code.Code)

	require.NoError(t, err)
	assert.Equal(t, model.AccessEdit, grant.Level)
	assert.Equal(t, code.Code, grant.GuestCode)
	assert.Equal(t, "guest@example.com", grant.Email)

	standing, err := f.access.AccessLevel(guest, board.UUID, "")
	require.NoError(t, err)
	assert.True(t, standing.CanEdit)

	refs, err := f.boards.ListSharedRefs(context.Background(), "guest")
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestPromoteGuest_NeverDowngradesEdit(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	guest := f.user(t, "guest", "guest@example.com")
	board := f.board(t, owner, "wall")
	_, err := f.access.GrantByEmail(owner, board.UUID, "guest@example.com", model.AccessEdit)
	require.NoError(t, err)
	readCode, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessRead)
	require.NoError(t, err)

	grant, err := f.access.PromoteGuest(guest, readCode.Code)

	require.NoError(t, err)
	assert.Equal(t, model.AccessEdit, grant.Level)
}

func TestPromoteGuest_OwnerAndAnonymous(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	board := f.board(t, owner, "wall")
	code, err := f.access.CreateAccessCode(owner, board.UUID, model.AccessEdit)
	require.NoError(t, err)

	grant, err := f.access.PromoteGuest(owner, code.Code)
	require.NoError(t, err)
	assert.Nil(t, grant)

	_, err = f.access.PromoteGuest(anonymous("anon"), code.Code)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}
