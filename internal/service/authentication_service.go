package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wallboard/internal/model"
	"wallboard/internal/ports"
	"wallboard/internal/security"
	"wallboard/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthenticationService struct {
	txManager      ports.TxManager
	jwtRepository  ports.JWTRepositoryInterface
	jwtService     ports.JWTServiceInterface
	userRepository ports.UserRepository
	ids            ports.IDGenerator
}

func NewAuthenticationService(
	txManager ports.TxManager,
	jwtRepository ports.JWTRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	userRepository ports.UserRepository,
	ids ports.IDGenerator,
) *AuthenticationService {
	return &AuthenticationService{
		txManager:      txManager,
		jwtRepository:  jwtRepository,
		jwtService:     jwtService,
		userRepository: userRepository,
		ids:            ids,
	}
}

// SignUp : creates an email/password account and opens a session for it
func (s *AuthenticationService) SignUp(ctx context.Context, email, password, userAgent, ipAddress string) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("[AuthenticationService] %w: email and password are required", model.ErrInvalidInput)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, util.LogError("[AuthenticationService] password hashing failed", err)
	}

	user, err := s.userRepository.CreateUser(ctx, s.txManager.Executor(), &model.User{
		UUID:         s.ids.New(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] sign up: %w", err)
	}

	zap.L().Info("user registered", zap.String("user_uuid", user.UUID))
	return s.issueSession(ctx, user, userAgent, ipAddress)
}

// Login : email/password sign in. With registerIfMissing an unknown email is signed up instead.
func (s *AuthenticationService) Login(ctx context.Context, email, password string, registerIfMissing bool, userAgent, ipAddress string) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.FindByEmail(ctx, s.txManager.Executor(), email)
	if errors.Is(err, model.ErrUserNotFound) {
		if registerIfMissing {
			return s.SignUp(ctx, email, password, userAgent, ipAddress)
		}
		return nil, fmt.Errorf("[AuthenticationService] wrong email or password: %w", model.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] user lookup: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("[AuthenticationService] wrong email or password: %w", model.ErrUnauthenticated)
	}

	return s.issueSession(ctx, user, userAgent, ipAddress)
}

// SignInAnonymously : a throwaway identity. It never satisfies "logged in" checks.
func (s *AuthenticationService) SignInAnonymously(ctx context.Context, userAgent, ipAddress string) (*model.Session, error) {
	user, err := s.userRepository.CreateUser(ctx, s.txManager.Executor(), &model.User{
		UUID:        s.ids.New(),
		IsAnonymous: true,
	})
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] anonymous sign in: %w", err)
	}

	return s.issueSession(ctx, user, userAgent, ipAddress)
}

func (s *AuthenticationService) issueSession(ctx context.Context, user *model.User, userAgent, ipAddress string) (*model.Session, error) {
	tokens, refreshToken, err := s.jwtService.GenerateAccessRefreshTokens(user)
	if err != nil {
		return nil, util.LogError("[AuthenticationService] token generation failed", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress

	if err := s.jwtRepository.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, util.LogError("[AuthenticationService] saving refresh token failed", err)
	}

	return &model.Session{User: *user, Tokens: *tokens}, nil
}

// RefreshToken : exchanges a token pair for a new one.
// Only the pair issued together works, and only once.
// A User-Agent change closes the session. An IP change is logged and allowed.
func (s *AuthenticationService) RefreshToken(ctx context.Context, userAgent, ipAddress, accessToken, refreshToken string) (*model.Session, error) {
	claims, err := s.jwtService.ParseExpiredAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] access token rejected: %w: %v", model.ErrUnauthenticated, err)
	}

	refreshTokenUUID := claims.RefreshTokenUUID

	storedRefreshToken, err := s.jwtRepository.FindByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] refresh token lookup: %w", err)
	}
	if storedRefreshToken.Used {
		zap.L().Warn("refresh token reused", zap.String("refresh_token_uuid", refreshTokenUUID))
		return nil, fmt.Errorf("[AuthenticationService] invalid token: %w", model.ErrUnauthenticated)
	}

	if time.Now().UTC().After(storedRefreshToken.ExpireAt) {
		zap.L().Info("refresh token expired", zap.String("refresh_token_uuid", refreshTokenUUID))
		return nil, fmt.Errorf("[AuthenticationService] invalid token: %w", model.ErrUnauthenticated)
	}

	if storedRefreshToken.UserAgent != userAgent {
		if err := s.jwtRepository.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
			zap.L().Warn("could not close session", zap.String("refresh_token_uuid", refreshTokenUUID), zap.Error(err))
		}
		zap.L().Warn("refresh attempted from another user agent", zap.String("refresh_token_uuid", refreshTokenUUID))
		return nil, fmt.Errorf("[AuthenticationService] invalid token: %w", model.ErrUnauthenticated)
	}

	if storedRefreshToken.IpAddress != ipAddress {
		zap.L().Info("refresh from a new ip address",
			zap.String("user_uuid", claims.UserUUID),
			zap.String("previous_ip", storedRefreshToken.IpAddress),
			zap.String("ip", ipAddress),
		)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedRefreshToken.TokenHash), []byte(refreshToken)); err != nil {
		return nil, fmt.Errorf("[AuthenticationService] invalid token: %w", model.ErrUnauthenticated)
	}

	if err := s.jwtRepository.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return nil, fmt.Errorf("[AuthenticationService] closing refresh token: %w", err)
	}

	user, err := s.userRepository.FindByUUID(ctx, s.txManager.Executor(), claims.UserUUID)
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] user lookup: %w", err)
	}

	return s.issueSession(ctx, user, userAgent, ipAddress)
}

// Logout : closes the session behind refreshTokenUUID
func (s *AuthenticationService) Logout(ctx context.Context, refreshTokenUUID string) error {
	if err := s.jwtRepository.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return fmt.Errorf("[AuthenticationService] logout: %w", err)
	}
	return nil
}

func (s *AuthenticationService) CurrentUser(ctx context.Context) (*model.User, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.FindByUUID(ctx, s.txManager.Executor(), claims.UserUUID)
	if err != nil {
		return nil, fmt.Errorf("[AuthenticationService] current user: %w", err)
	}
	return user, nil
}
