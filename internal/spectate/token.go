// internal/spectate/token.go
package spectate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AnyGame is the game claim that admits a token to every game.
const AnyGame = "*"

// ErrUnauthorized is returned for a missing, invalid or foreign token.
var ErrUnauthorized = errors.New("unauthorized")

// IssueToken signs an HS256 spectator token for gameID, valid for ttl.
func IssueToken(secret []byte, gameID string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("spectate secret is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  uuid.NewString(),
		"game": gameID,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken checks the signature and expiry of tokenString and that it
// admits gameID.
func ValidateToken(secret []byte, tokenString, gameID string) error {
	if tokenString == "" {
		return fmt.Errorf("%w: no token", ErrUnauthorized)
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("%w: unexpected claims", ErrUnauthorized)
	}
	game, _ := claims["game"].(string)
	if game != gameID && game != AnyGame {
		return fmt.Errorf("%w: token is for game %q", ErrUnauthorized, game)
	}
	return nil
}
