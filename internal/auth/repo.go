package auth

import (
	"context"

	"github.com/alrazi/medstock/internal/users"
)

// Repository defines the lookup the auth module needs.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (users.User, error)
}

var _ Repository = (*users.Service)(nil)
