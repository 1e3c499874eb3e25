package model

import (
	"fmt"
	"time"
)

type AccessLevel string

const (
	AccessNone AccessLevel = ""
	AccessRead AccessLevel = "read"
	AccessEdit AccessLevel = "edit"
)

func ParseAccessLevel(s string) (AccessLevel, error) {
	switch AccessLevel(s) {
	case AccessRead, AccessEdit:
		return AccessLevel(s), nil
	default:
		return AccessNone, fmt.Errorf("%w: unknown access level %q", ErrInvalidInput, s)
	}
}

func (l AccessLevel) CanEdit() bool {
	return l == AccessEdit
}

func (l AccessLevel) CanRead() bool {
	return l == AccessRead || l == AccessEdit
}

// PermissionGrant : per-board per-user access. Never created for the board owner.
type PermissionGrant struct {
	BoardUUID string      `db:"board_uuid" json:"board_uuid"`
	UserUUID  string      `db:"user_uuid" json:"user_uuid"`
	Email     string      `db:"email" json:"email"`
	Level     AccessLevel `db:"level" json:"level"`
	GuestCode string      `db:"guest_code" json:"guest_code,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// AccessCode : shareable code granting a level on one board. Codes share one global namespace.
type AccessCode struct {
	Code      string      `db:"code" json:"code"`
	BoardUUID string      `db:"board_uuid" json:"board_uuid"`
	Level     AccessLevel `db:"level" json:"level"`
	CreatedBy string      `db:"created_by" json:"created_by"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	ExpiresAt *time.Time  `db:"expires_at" json:"expires_at,omitempty"`
}

func (c *AccessCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// RedeemedCode : what a guest learns from a valid code
type RedeemedCode struct {
	Code      string      `json:"code"`
	Level     AccessLevel `json:"level"`
	BoardUUID string      `json:"board_uuid"`
	BoardName string      `json:"board_name"`
}

// BoardAccess : the caller's standing on a board
type BoardAccess struct {
	BoardUUID string      `json:"board_uuid"`
	Owner     bool        `json:"owner"`
	Level     AccessLevel `json:"level"`
	CanEdit   bool        `json:"can_edit"`
}
