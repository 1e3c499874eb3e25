package access_test

import (
	"testing"

	"wallboard/internal/access"
	"wallboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeGuest() access.GuestSession {
	return access.NewGuestSession(&model.RedeemedCode{
		Code:      "K7QX2M",
		Level:     model.AccessEdit,
		BoardUUID: "b1",
		BoardName: "Spray wall",
	})
}

func TestPlanPromotion(t *testing.T) {
	signedIn := &access.Identity{UserUUID: "u2", Email: "u2@example.com"}
	anonymous := &access.Identity{UserUUID: "anon", Anonymous: true}

	tests := []struct {
		name   string
		prior  access.GuestSession
		event  access.AuthChange
		wantOK bool
	}{
		{"guest signs up", activeGuest(), access.AuthChange{Previous: nil, Current: signedIn}, true},
		{"anonymous session upgrades", activeGuest(), access.AuthChange{Previous: anonymous, Current: signedIn}, true},
		{"no guest session", access.GuestSession{}, access.AuthChange{Current: signedIn}, false},
		{"sign out", activeGuest(), access.AuthChange{Previous: signedIn, Current: nil}, false},
		{"anonymous sign in", activeGuest(), access.AuthChange{Previous: nil, Current: anonymous}, false},
		{"same user again", activeGuest(), access.AuthChange{Previous: signedIn, Current: signedIn}, false},
		{"guest without board", access.GuestSession{Code: "X", Level: model.AccessEdit}, access.AuthChange{Current: signedIn}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promotion, ok := access.PlanPromotion(tt.prior, tt.event)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, access.Promotion{
				UserUUID:  "u2",
				Email:     "u2@example.com",
				BoardUUID: "b1",
				Level:     model.AccessEdit,
				Code:      "K7QX2M",
			}, promotion)
		})
	}
}

func TestGuestSession_ScopedToOneBoard(t *testing.T) {
	guest := activeGuest()

	assert.Equal(t, model.AccessEdit, guest.LevelFor("b1"))
	assert.Equal(t, model.AccessNone, guest.LevelFor("b2"))

	guest.Clear()
	assert.False(t, guest.Active())
	assert.Equal(t, access.GuestSession{}, guest)
}
