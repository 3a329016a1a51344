package auth

import "dendrite/internal/domain/models"

// TokenVerifier defines the interface for bearer identity token verification.
// Tokens are issued by an external identity provider; this service only
// verifies them, which keeps the middleware agnostic to the provider.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.IdentityClaims, error)

	// Close releases any resources held by the verifier (e.g. HTTP connections for JWKS).
	Close() error
}
