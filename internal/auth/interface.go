package auth

import "github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"

// TokenValidator resolves a bearer token to the user it was issued to.
// Middleware depends on this rather than on Service so tests can stub it.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.User, error)
}

// Ensure Service implements TokenValidator
var _ TokenValidator = (*Service)(nil)
