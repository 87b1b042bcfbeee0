package auth

import "github.com/alrazi/medstock/internal/users"

// User is the account returned by a successful login.
type User = users.User
