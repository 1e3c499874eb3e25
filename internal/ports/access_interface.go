package ports

import (
	"context"

	"wallboard/internal/model"

	"github.com/jmoiron/sqlx"
)

type GrantRepository interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, grant *model.PermissionGrant) error
	Find(ctx context.Context, exec sqlx.ExtContext, boardUUID, userUUID string) (*model.PermissionGrant, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, boardUUID, userUUID string) error
	ListByBoard(ctx context.Context, exec sqlx.ExtContext, boardUUID string) ([]model.PermissionGrant, error)
}

type AccessCodeRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, code *model.AccessCode) error
	GetByCode(ctx context.Context, exec sqlx.ExtContext, code string) (*model.AccessCode, error)
}

// EditGuard : the edit-capability check problem writes go through
type EditGuard interface {
	CanEdit(ctx context.Context, board *model.Board, guestCode string) (bool, error)
}

type AccessService interface {
	EditGuard
	AccessLevel(ctx context.Context, boardUUID, guestCode string) (*model.BoardAccess, error)
	CreateAccessCode(ctx context.Context, boardUUID string, level model.AccessLevel) (*model.AccessCode, error)
	RedeemCode(ctx context.Context, code string) (*model.RedeemedCode, error)
	GrantByEmail(ctx context.Context, boardUUID, email string, level model.AccessLevel) (*model.PermissionGrant, error)
	RevokeGrant(ctx context.Context, boardUUID, userUUID string) error
	ListGrants(ctx context.Context, boardUUID string) ([]model.PermissionGrant, error)
	PromoteGuest(ctx context.Context, code string) (*model.PermissionGrant, error)
}
