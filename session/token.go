package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// TokenStrategy selects how session tokens are rendered. Both strategies
// carry 128 bits of entropy from a cryptographically secure source.
type TokenStrategy int

const (
	// TokenHex renders tokens as a fixed-length 32-character hex string.
	TokenHex TokenStrategy = iota
	// TokenUUID renders tokens as a random (v4) UUID.
	TokenUUID
)

const tokenBytes = 16

// ErrTokenUnavailable is returned when the entropy source fails. No weaker
// token is ever issued.
var ErrTokenUnavailable = errors.New("token generation unavailable")

func newToken(strategy TokenStrategy) (string, error) {
	switch strategy {
	case TokenUUID:
		id, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
		}
		return id.String(), nil
	default:
		raw := make([]byte, tokenBytes)
		if _, err := io.ReadFull(rand.Reader, raw); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
		}
		return hex.EncodeToString(raw), nil
	}
}
