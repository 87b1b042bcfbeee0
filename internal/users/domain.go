package users

// Role grants access levels. Enforcement belongs to the caller.
type Role string

const (
	// RoleAdmin may manage items, users and revise movements.
	RoleAdmin Role = "ADMIN"
	// RoleUser may record movements.
	RoleUser Role = "USER"
)

// User represents an account. Password is kept in plaintext.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserInput registers a new account.
type CreateUserInput struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Role        Role   `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	DisplayName string `json:"displayName"`
}

// ProfileInput edits the caller's own account. An empty NewPassword keeps
// the current password.
type ProfileInput struct {
	UserID          string `json:"userId" validate:"required"`
	DisplayName     string `json:"displayName"`
	Username        string `json:"username" validate:"required"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// DefaultAdmin describes the account seeded on first run.
type DefaultAdmin struct {
	Username    string
	Password    string
	DisplayName string
}

const (
	defaultAdminUsername    = "admin"
	defaultAdminPassword    = "0000"
	defaultAdminDisplayName = "System Administrator"
)

func (d DefaultAdmin) withDefaults() DefaultAdmin {
	if d.Username == "" {
		d.Username = defaultAdminUsername
	}
	if d.Password == "" {
		d.Password = defaultAdminPassword
	}
	if d.DisplayName == "" {
		d.DisplayName = defaultAdminDisplayName
	}
	return d
}
