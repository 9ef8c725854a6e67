package utils

import (
	"time"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are the claims carried by an access token. The user ID is the subject.
type AccessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the user ID (subject) and the registered claims.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

func registeredClaims(userID string, expiryDuration time.Duration, issuer string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

// GenerateAccessToken signs an access token for the given user.
func GenerateAccessToken(user *domain.User, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	claims := AccessClaims{
		Username:         user.Username,
		Email:            user.Email,
		FullName:         user.FullName,
		RegisteredClaims: registeredClaims(user.UserID, expiryDuration, issuer),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateRefreshToken signs a refresh token for the given user ID.
func GenerateRefreshToken(userID string, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	claims := RefreshClaims{RegisteredClaims: registeredClaims(userID, expiryDuration, issuer)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates signature and expiry of an access token.
func ParseAccessToken(tokenString string, secretKey string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ParseAndValidateJWT(tokenString, secretKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken validates signature and expiry of a refresh token.
func ParseRefreshToken(tokenString string, secretKey string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ParseAndValidateJWT(tokenString, secretKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseAndValidateJWT parses a JWT token string into claims, validating its signature and standard claims.
func ParseAndValidateJWT(tokenString string, secretKey string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return err // token expired, signature invalid, malformed, ...
	}
	if !token.Valid {
		return jwt.ErrTokenSignatureInvalid
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return err
	}
	if sub == "" {
		return jwt.ErrTokenInvalidSubject
	}
	return nil
}
