package ports

import (
	"context"

	"wallboard/internal/model"
	"wallboard/internal/security"
)

type JWTRepositoryInterface interface {
	FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error)
	MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, *model.RefreshToken, error)
	ParseAccessToken(tokenStr string) (*security.Claims, error)
	ParseExpiredAccessToken(tokenStr string) (*security.Claims, error)
}
