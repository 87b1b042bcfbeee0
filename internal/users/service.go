package users

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alrazi/medstock/internal/shared"
)

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: shared.NewValidator(), logger: logger}
}

// EnsureDefaultAdmin creates the seed administrator when no ADMIN exists.
// It reports whether an account was created.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, seed DefaultAdmin) (bool, error) {
	seed = seed.withDefaults()
	created := false
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		all, err := tx.List(ctx)
		if err != nil {
			return err
		}
		for _, u := range all {
			if u.IsAdmin() {
				return nil
			}
		}
		if _, taken := findUsername(all, seed.Username); taken {
			s.logger.WarnContext(ctx, "default admin not seeded, username taken by a non-admin account",
				slog.String("username", seed.Username))
			return nil
		}
		created = true
		return tx.Save(ctx, User{
			ID:          uuid.NewString(),
			Username:    seed.Username,
			Password:    seed.Password,
			Role:        RoleAdmin,
			DisplayName: seed.DisplayName,
		})
	})
	if err != nil {
		return false, fmt.Errorf("users: seed admin: %w", err)
	}
	if created {
		s.logger.InfoContext(ctx, "default admin created", slog.String("username", seed.Username))
	}
	return created, nil
}

// Create registers a new account with a unique username.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return User{}, err
	}
	u := User{
		ID:          uuid.NewString(),
		Username:    in.Username,
		Password:    in.Password,
		Role:        in.Role,
		DisplayName: strings.TrimSpace(in.DisplayName),
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		all, err := tx.List(ctx)
		if err != nil {
			return err
		}
		if _, taken := findUsername(all, u.Username); taken {
			return duplicateUsername()
		}
		return tx.Save(ctx, u)
	})
	if err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, fmt.Errorf("users: get %s: %w", id, err)
	}
	return u, nil
}

// FindByUsername returns the user with exactly this username.
func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return User{}, fmt.Errorf("users: find: %w", err)
	}
	u, ok := findUsername(all, username)
	if !ok {
		return User{}, fmt.Errorf("users: %q: %w", username, shared.ErrNotFound)
	}
	return u, nil
}

// List returns all users ordered by username.
func (s *Service) List(ctx context.Context) ([]User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

// Delete removes an account. The last administrator cannot be removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		u, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if u.IsAdmin() {
			all, err := tx.List(ctx)
			if err != nil {
				return err
			}
			admins := 0
			for _, other := range all {
				if other.IsAdmin() {
					admins++
				}
			}
			if admins <= 1 {
				return shared.NewValidationError("id", "cannot delete the last administrator")
			}
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("users: delete %s: %w", id, err)
	}
	return nil
}

// UpdateProfile edits display name, username and optionally password. The
// duplicate check and the write share one unit of work.
func (s *Service) UpdateProfile(ctx context.Context, in ProfileInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return User{}, err
	}
	if in.NewPassword != "" && in.NewPassword != in.ConfirmPassword {
		return User{}, shared.NewValidationError("confirmPassword", "passwords do not match")
	}

	var updated User
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		u, err := tx.Get(ctx, in.UserID)
		if err != nil {
			return err
		}
		if in.Username != u.Username {
			all, err := tx.List(ctx)
			if err != nil {
				return err
			}
			if other, taken := findUsername(all, in.Username); taken && other.ID != u.ID {
				return duplicateUsername()
			}
		}
		u.Username = in.Username
		if in.DisplayName != "" {
			u.DisplayName = in.DisplayName
		}
		if in.NewPassword != "" {
			u.Password = in.NewPassword
		}
		updated = u
		return tx.Save(ctx, u)
	})
	if err != nil {
		return User{}, fmt.Errorf("users: update profile: %w", err)
	}
	return updated, nil
}

func findUsername(all []User, username string) (User, bool) {
	for _, u := range all {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

func duplicateUsername() error {
	return shared.NewValidationError("username", "duplicate username")
}
