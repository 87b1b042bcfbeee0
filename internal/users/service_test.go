package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/shared"
	"github.com/alrazi/medstock/internal/store/memstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := memstore.New()
	require.NoError(t, s.Init(context.Background()))
	return NewService(NewRepository(s), nil)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureDefaultAdmin(ctx, DefaultAdmin{})
	require.NoError(t, err)
	require.True(t, created)

	admin, err := svc.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "0000", admin.Password)
	require.Equal(t, RoleAdmin, admin.Role)
	require.Equal(t, "System Administrator", admin.DisplayName)
	require.NotEmpty(t, admin.ID)

	created, err = svc.EnsureDefaultAdmin(ctx, DefaultAdmin{Username: "root"})
	require.NoError(t, err)
	require.False(t, created)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestEnsureDefaultAdminSkipsTakenUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Username: "admin", Password: "x"})
	require.NoError(t, err)

	created, err := svc.EnsureDefaultAdmin(ctx, DefaultAdmin{})
	require.NoError(t, err)
	require.False(t, created)

	u, err := svc.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, RoleUser, u.Role)
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserInput{Username: " joy ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "joy", u.Username)
	require.Equal(t, RoleUser, u.Role)
	require.Equal(t, "joy", u.DisplayName)

	_, err = svc.Create(ctx, CreateUserInput{Username: "joy", Password: "other"})
	var verr shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "username", verr.Field)

	_, err = svc.Create(ctx, CreateUserInput{Username: "Joy", Password: "pw", Role: "ROOT"})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "role", verr.Field)

	_, err = svc.Create(ctx, CreateUserInput{Username: "quinn"})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "password", verr.Field)

	_, err = svc.FindByUsername(ctx, "JOY")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListSortedByUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"zed", "amy", "mo"} {
		_, err := svc.Create(ctx, CreateUserInput{Username: name, Password: "pw"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "amy", all[0].Username)
	require.Equal(t, "mo", all[1].Username)
	require.Equal(t, "zed", all[2].Username)
}

func TestDeleteKeepsLastAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureDefaultAdmin(ctx, DefaultAdmin{})
	require.NoError(t, err)
	admin, err := svc.FindByUsername(ctx, "admin")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, admin.ID), shared.ErrValidation)

	second, err := svc.Create(ctx, CreateUserInput{Username: "boss", Password: "pw", Role: RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin.ID))

	_, err = svc.Get(ctx, admin.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), shared.ErrNotFound)

	clerk, err := svc.Create(ctx, CreateUserInput{Username: "clerk", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, clerk.ID))

	_, err = svc.Get(ctx, second.ID)
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	joy, err := svc.Create(ctx, CreateUserInput{Username: "joy", Password: "old", DisplayName: "Nurse Joy"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{Username: "quinn", Password: "pw"})
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfileInput{UserID: joy.ID, Username: "quinn"})
		var verr shared.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "duplicate username", verr.Message)
	})

	t.Run("password mismatch", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfileInput{UserID: joy.ID, Username: "joy", NewPassword: "a", ConfirmPassword: "b"})
		require.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("username required", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfileInput{UserID: joy.ID, Username: "  "})
		require.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rename keeps password and id", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, ProfileInput{UserID: joy.ID, Username: "joy.k", DisplayName: "Joy K."})
		require.NoError(t, err)
		require.Equal(t, joy.ID, u.ID)
		require.Equal(t, "old", u.Password)

		_, err = svc.FindByUsername(ctx, "joy")
		require.ErrorIs(t, err, shared.ErrNotFound)
		stored, err := svc.FindByUsername(ctx, "joy.k")
		require.NoError(t, err)
		require.Equal(t, "Joy K.", stored.DisplayName)
	})

	t.Run("new password", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, ProfileInput{UserID: joy.ID, Username: "joy.k", NewPassword: "new", ConfirmPassword: "new"})
		require.NoError(t, err)
		require.Equal(t, "new", u.Password)
		require.Equal(t, "Joy K.", u.DisplayName)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ProfileInput{UserID: "missing", Username: "x"})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
