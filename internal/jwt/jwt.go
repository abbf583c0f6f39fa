package jwt

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/paharnama-dev/paharnama/internal/domain"
	internal_errors "github.com/paharnama-dev/paharnama/internal/errors"
	"github.com/paharnama-dev/paharnama/internal/logger"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims is the decoded identity carried by a session token.
type Claims struct {
	UserId domain.UserId
	Email  string
	Role   domain.Role
}

type TokenService interface {
	NewTokenPair(user domain.User) (domain.TokenPair, error)
	DecodeAccessToken(tokenStr string) (*Claims, error)
	DecodeRefreshToken(tokenStr string) (*Claims, error)
}

type Jwt struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(secretKey string, accessTTL, refreshTTL time.Duration) *Jwt {
	return &Jwt{secretKey, accessTTL, refreshTTL}
}

// NewTokenPair mints a fresh access/refresh pair for user. Both tokens
// carry the same identity payload; they differ in expiry and in the "typ"
// claim so one can never be presented in place of the other.
func (j *Jwt) NewTokenPair(user domain.User) (domain.TokenPair, error) {
	access, err := j.newToken(user, typeAccess, j.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := j.newToken(user, typeRefresh, j.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *Jwt) newToken(user domain.User, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{}
	claims["sub"] = user.Id
	claims["email"] = user.Email
	claims["role"] = string(user.Role)
	claims["typ"] = tokenType
	claims["exp"] = time.Now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "type", tokenType, "error", err)
		return "", err
	}
	return tokenString, nil
}

func (j *Jwt) DecodeAccessToken(tokenStr string) (*Claims, error) {
	return j.decode(tokenStr, typeAccess, "Invalid access token")
}

func (j *Jwt) DecodeRefreshToken(tokenStr string) (*Claims, error) {
	return j.decode(tokenStr, typeRefresh, "Invalid or expired refresh token")
}

// decode verifies signature, expiry and token type. Every failure mode
// collapses to the same generic message so callers cannot probe which
// check rejected the token.
func (j *Jwt) decode(tokenStr, wantType, failMessage string) (*Claims, error) {
	fail := &internal_errors.ErrorWithStatusCode{Message: failMessage, StatusCode: http.StatusUnauthorized}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fail
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fail
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fail
	}
	if typ, ok := claims["typ"].(string); !ok || typ != wantType {
		return nil, fail
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, fail
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, fail
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fail
	}

	return &Claims{UserId: int64(sub), Email: email, Role: domain.Role(role)}, nil
}
