package access

import "wallboard/internal/model"

// GuestSession : access held through a redeemed code, in memory only
type GuestSession struct {
	Code      string
	Level     model.AccessLevel
	BoardUUID string
	BoardName string
}

func NewGuestSession(redeemed *model.RedeemedCode) GuestSession {
	return GuestSession{
		Code:      redeemed.Code,
		Level:     redeemed.Level,
		BoardUUID: redeemed.BoardUUID,
		BoardName: redeemed.BoardName,
	}
}

func (g GuestSession) Active() bool {
	return g.Code != ""
}

// For : whether the session grants anything on boardUUID
func (g GuestSession) For(boardUUID string) bool {
	return g.Active() && g.BoardUUID == boardUUID
}

// LevelFor : the guest level on boardUUID, empty for any other board
func (g GuestSession) LevelFor(boardUUID string) model.AccessLevel {
	if !g.For(boardUUID) {
		return model.AccessNone
	}
	return g.Level
}

func (g *GuestSession) Clear() {
	*g = GuestSession{}
}

// AuthChange : one identity-changed event
type AuthChange struct {
	Previous *Identity
	Current  *Identity
}

// NewlyAuthenticated : the event signs in a real user who was not signed in before
func (e AuthChange) NewlyAuthenticated() bool {
	if !e.Current.Authenticated() {
		return false
	}
	return !e.Previous.Authenticated() || e.Previous.UserUUID != e.Current.UserUUID
}

// Promotion : the durable grant to write for a promoted guest
type Promotion struct {
	UserUUID  string
	Email     string
	BoardUUID string
	Level     model.AccessLevel
	Code      string
}

// PlanPromotion : prior must be captured before anything reacts to the event.
// Promotion happens only when a real user just signed in, a guest session was active
// and that session names a board.
func PlanPromotion(prior GuestSession, event AuthChange) (Promotion, bool) {
	if !event.NewlyAuthenticated() || !prior.Active() || prior.BoardUUID == "" {
		return Promotion{}, false
	}
	return Promotion{
		UserUUID:  event.Current.UserUUID,
		Email:     event.Current.Email,
		BoardUUID: prior.BoardUUID,
		Level:     prior.Level,
		Code:      prior.Code,
	}, true
}
