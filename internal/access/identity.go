// Package access decides who may edit a board from the client's point of view.
// The same rules run server side for every problem write.
package access

import "wallboard/internal/model"

// Identity : the current actor. A nil Identity means no session at all.
type Identity struct {
	UserUUID  string
	Email     string
	Anonymous bool
}

// Authenticated : true only for a signed-in, non-anonymous user
func (i *Identity) Authenticated() bool {
	return i != nil && i.UserUUID != "" && !i.Anonymous
}

// CanEditCurrentBoard : first matching rule wins.
//  1. no authenticated user: the guest code level decides
//  2. the board owner can always edit
//  3. otherwise the stored grant level decides
//
// The result must be recomputed whenever any input changes, never cached.
func CanEditCurrentBoard(user *Identity, board *model.Board, sharedLevel, guestLevel model.AccessLevel) bool {
	if !user.Authenticated() {
		return guestLevel == model.AccessEdit
	}
	if board != nil && board.OwnerUUID == user.UserUUID {
		return true
	}
	return sharedLevel == model.AccessEdit
}
