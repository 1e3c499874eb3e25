package ports

import (
	"context"

	"wallboard/internal/model"
)

type AuthenticationService interface {
	SignUp(ctx context.Context, email, password, userAgent, ipAddress string) (*model.Session, error)
	Login(ctx context.Context, email, password string, registerIfMissing bool, userAgent, ipAddress string) (*model.Session, error)
	SignInAnonymously(ctx context.Context, userAgent, ipAddress string) (*model.Session, error)
	RefreshToken(ctx context.Context, userAgent, ipAddress, accessToken, refreshToken string) (*model.Session, error)
	Logout(ctx context.Context, refreshTokenUUID string) error
	CurrentUser(ctx context.Context) (*model.User, error)
}
