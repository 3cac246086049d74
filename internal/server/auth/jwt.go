package auth

import (
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the account identity and tier.
// The tier is embedded so request handling does not need an account lookup
// to apply tier rules.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string
	Tier     models.Tier
}

func GenerateToken(clientID string, tier models.Tier, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		ClientID: clientID,
		Tier:     tier,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
