package security

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wallboard/config"
	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID         string `json:"user_uuid"`
	RefreshTokenUUID string `json:"refresh_token_id"`
	Email            string `json:"email,omitempty"`
	Anonymous        bool   `json:"anonymous,omitempty"`
	jwt.RegisteredClaims
}

// RefreshTokenFinder : lookup the middleware uses to reject revoked sessions
type RefreshTokenFinder interface {
	FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error)
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

func (service *JWTService) GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, *model.RefreshToken, error) {
	refreshToken, refreshTokenStr, err := GenerateRefreshToken()
	if err != nil {
		return nil, nil, util.LogError("[JWTService] refresh token generation failed", err)
	}

	refreshToken.UserUUID = user.UUID
	timeDuration, err := time.ParseDuration(service.RefreshTokenTTL)
	if err != nil {
		return nil, nil, util.LogError("[JWTService] invalid refresh token ttl", err)
	}
	refreshToken.ExpireAt = time.Now().UTC().Add(timeDuration)

	timeDuration, err = time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return nil, nil, util.LogError("[JWTService] invalid access token ttl", err)
	}
	claims := Claims{
		UserUUID:         user.UUID,
		RefreshTokenUUID: refreshToken.UUID,
		Email:            user.Email,
		Anonymous:        user.IsAnonymous,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "wallboard",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return nil, nil, util.LogError("[JWTService] token signing failed", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenStr,
	}, refreshToken, nil
}

func GenerateRefreshToken() (*model.RefreshToken, string, error) {
	jwtTokenBytes := make([]byte, 32)
	_, err := rand.Read(jwtTokenBytes)
	if err != nil {
		return nil, "", util.LogError("[JWTService] random read failed", err)
	}
	refreshUUID := uuid.New().String()
	refreshTokenStr := base64.StdEncoding.EncodeToString(jwtTokenBytes)

	hashedToken, err := bcrypt.GenerateFromPassword([]byte(refreshTokenStr), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", util.LogError("[JWTService] refresh token hashing failed", err)
	}

	// the plain string goes to the client, only the hash is stored
	return &model.RefreshToken{
		UUID:      refreshUUID,
		TokenHash: string(hashedToken),
		Used:      false,
	}, refreshTokenStr, nil
}

func (service *JWTService) ValidateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !jwtToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ParseAccessToken : validates a token signed with the configured secret
func (service *JWTService) ParseAccessToken(tokenStr string) (*Claims, error) {
	return service.ValidateJWT(tokenStr, []byte(service.SecretKey))
}

// ParseExpiredAccessToken : checks the signature but not the expiry, for the refresh flow
func (service *JWTService) ParseExpiredAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// JWTMiddleware : rejects requests without a valid bearer token
func JWTMiddleware(tokens RefreshTokenFinder, jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(tokens, jwtService, true, next))
	}
}

// OptionalJWTMiddleware : attaches claims when a bearer token is present, lets guests through otherwise
func OptionalJWTMiddleware(tokens RefreshTokenFinder, jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(tokens, jwtService, false, next))
	}
}

func handleAuthentication(tokens RefreshTokenFinder, jwtService *JWTService, required bool, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			if required {
				util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(writer, request)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ParseAccessToken(token)
		if err != nil {
			zap.L().Debug("rejected access token", zap.Error(err))
			util.HandleError(writer, "invalid token", http.StatusUnauthorized)
			return
		}

		refreshToken, err := tokens.FindByUUID(request.Context(), claims.RefreshTokenUUID)
		if err != nil {
			zap.L().Debug("refresh token not found", zap.String("refresh_token_uuid", claims.RefreshTokenUUID), zap.Error(err))
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		if refreshToken.Used {
			zap.L().Debug("session already closed", zap.String("refresh_token_uuid", claims.RefreshTokenUUID))
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(writer, request.WithContext(WithClaims(request.Context(), claims)))
	}
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, model.ErrUnauthenticated
	}
	return claims, nil
}
