package access_test

import (
	"testing"

	"wallboard/internal/access"
	"wallboard/internal/model"

	"github.com/stretchr/testify/assert"
)

var levels = []model.AccessLevel{model.AccessNone, model.AccessRead, model.AccessEdit}

func TestCanEditCurrentBoard_OwnerAlwaysEdits(t *testing.T) {
	owner := &access.Identity{UserUUID: "u1", Email: "u1@example.com"}
	board := &model.Board{UUID: "b1", OwnerUUID: "u1"}

	for _, shared := range levels {
		for _, guest := range levels {
			assert.True(t, access.CanEditCurrentBoard(owner, board, shared, guest), "shared=%q guest=%q", shared, guest)
		}
	}
}

func TestCanEditCurrentBoard_GuestLevelWithoutUser(t *testing.T) {
	board := &model.Board{UUID: "b1", OwnerUUID: "u1"}
	anonymous := &access.Identity{UserUUID: "anon", Anonymous: true}

	for _, user := range []*access.Identity{nil, anonymous} {
		for _, shared := range levels {
			for _, guest := range levels {
				got := access.CanEditCurrentBoard(user, board, shared, guest)
				assert.Equal(t, guest == model.AccessEdit, got, "user=%v shared=%q guest=%q", user, shared, guest)
			}
		}
	}
}

func TestCanEditCurrentBoard_SharedLevelForOthers(t *testing.T) {
	board := &model.Board{UUID: "b1", OwnerUUID: "u1"}
	grantee := &access.Identity{UserUUID: "u2"}

	assert.True(t, access.CanEditCurrentBoard(grantee, board, model.AccessEdit, model.AccessNone))
	assert.False(t, access.CanEditCurrentBoard(grantee, board, model.AccessRead, model.AccessNone))
	assert.False(t, access.CanEditCurrentBoard(grantee, board, model.AccessNone, model.AccessNone))
	// guest level is ignored once a real user is signed in
	assert.False(t, access.CanEditCurrentBoard(grantee, board, model.AccessNone, model.AccessEdit))
}

func TestCanEditCurrentBoard_NoBoard(t *testing.T) {
	user := &access.Identity{UserUUID: "u1"}
	assert.False(t, access.CanEditCurrentBoard(user, nil, model.AccessNone, model.AccessNone))
}
