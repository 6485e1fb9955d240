// Package auth issues and verifies the server's bearer tokens and hashes
// account passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A reset token cannot be used as an access token and
// the other way round.
const (
	PurposeAccess = "access"
	PurposeReset  = "reset"
)

// Claims carries the standard claims plus the user id and what the
// token may be used for.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string
	Purpose string
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generate(userID, PurposeAccess, secretKey, validityDuration)
}

// GetUserIDFromToken validates an access token. Expired tokens yield
// common.ErrTokenExpired, anything else unusable common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	return parse(tokenString, PurposeAccess, secretKey)
}

// GenerateResetToken issues the token mailed for a password reset.
func GenerateResetToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generate(userID, PurposeReset, secretKey, validityDuration)
}

func ParseResetToken(tokenString string, secretKey []byte) (string, error) {
	return parse(tokenString, PurposeReset, secretKey)
}

func generate(userID, purpose string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:  userID,
		Purpose: purpose,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func parse(tokenString, purpose string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Purpose != purpose || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
