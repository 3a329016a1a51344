package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims represents the JWT claims issued by the external identity
// provider for moderators. Only verification happens here; tokens are never
// minted by this service.
type IdentityClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	SessionID            string `json:"session_id"`
	IsAnonymous          bool   `json:"is_anonymous"`
}

// GetModeratorID returns the moderator ID from the JWT subject claim.
// This is the primary identifier for the authenticated moderator.
func (c *IdentityClaims) GetModeratorID() string {
	return c.Subject
}
