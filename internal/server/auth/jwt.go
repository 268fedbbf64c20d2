// Package auth issues and verifies the HS256 access tokens handed out on login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the member identifier alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	MemberID string `json:"mid"`
}

func GenerateToken(memberID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		MemberID: memberID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetMemberIDFromToken validates tokenString and returns its member id.
// Expired tokens yield common.ErrTokenExpired, anything else invalid
// yields common.ErrInvalidToken.
func GetMemberIDFromToken(tokenString string, secretKey []byte) (string, error) {
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

	if !token.Valid || claims.MemberID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.MemberID, nil
}
