package types

import (
	"github.com/google/uuid"
)

// TokenClaims carries the verified identity extracted from a JWT token.
type TokenClaims struct {
	UserID uuid.UUID
}
