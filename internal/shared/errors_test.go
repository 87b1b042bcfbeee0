package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("catalog: create: %w", NewValidationError("code", "code is required"))
	require.ErrorIs(t, err, ErrValidation)
	require.False(t, errors.Is(err, ErrNotFound))

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "code", verr.Field)
	require.Equal(t, "validation failed for code: code is required", verr.Error())
}

func TestUserSafeMessage(t *testing.T) {
	require.Empty(t, UserSafeMessage(nil))
	require.Equal(t, "duplicate username", UserSafeMessage(NewValidationError("username", "duplicate username")))
	require.Equal(t, "Invalid username or password.", UserSafeMessage(ErrInvalidCredentials))
	require.Equal(t, "The requested record does not exist.", UserSafeMessage(fmt.Errorf("x: %w", ErrNotFound)))
	require.Equal(t, "The inventory database is not available.", UserSafeMessage(ErrStoreUnavailable))
	require.Equal(t, "Something went wrong, please try again.", UserSafeMessage(errors.New("boom")))
}

type sample struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Kind     string `json:"kind" validate:"omitempty,oneof=A B"`
	NoTag    string `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name  string
		in    sample
		field string
		msg   string
	}{
		{"required", sample{Quantity: 1, NoTag: "x"}, "code", "code is required"},
		{"gt", sample{Code: "c", NoTag: "x"}, "quantity", "quantity must be greater than 0"},
		{"oneof", sample{Code: "c", Quantity: 1, Kind: "Z", NoTag: "x"}, "kind", "kind must be one of: A B"},
		{"field name fallback", sample{Code: "c", Quantity: 1}, "NoTag", "NoTag is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(v, tc.in)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
			require.Equal(t, tc.msg, verr.Message)
		})
	}

	require.NoError(t, ValidateStruct(v, sample{Code: "c", Quantity: 1, NoTag: "x"}))
}

func TestContainsFold(t *testing.T) {
	require.True(t, ContainsFold("Sterile Gauze", "gauze"))
	require.True(t, ContainsFold("ÉTHER SOLUTION", "éther"))
	require.True(t, ContainsFold("anything", ""))
	require.False(t, ContainsFold("Syringe", "needle"))
}
