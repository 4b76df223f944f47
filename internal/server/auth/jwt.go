// Package auth provides JWT issuance/verification and password hashing for
// the server.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teaisforme/teataster/internal/common"
)

// Claims carries the standard registered claims plus the authenticated
// user's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// GenerateToken issues an HS256 token for userID valid for validityDuration.
func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the signature and expiry of tokenString and
// returns the user id claim.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
