package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hypersenta/backend/internal/database/testutil"
	apperrors "github.com/hypersenta/backend/pkg/errors"
	"github.com/hypersenta/backend/pkg/crypto"
)

func TestUserServiceCreateDerivesProfileFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:     "  Jane.Doe@Example.COM ",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
		Mobile:    "+12025550123",
	})
	require.NoError(t, err)

	require.NotEmpty(t, user.UUID)
	require.Equal(t, "jane.doe@example.com", user.Email)
	require.Equal(t, "Jane Doe", user.FullName)
	require.NotNil(t, user.Mobile)
	require.NotEmpty(t, user.NationalMobileNumber)
	require.False(t, user.IsActive)

	// The stored credential is a hash, never the raw password.
	require.NotEqual(t, "secret123", user.Password)
	require.True(t, crypto.VerifyPassword(user.Password, "secret123"))
}

func TestUserServiceCreateRejectsDuplicateEmail(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()
	input := CreateUserInput{Email: "dup@example.com", Password: "pw-123456", FirstName: "A", LastName: "B"}

	_, err = svc.Create(ctx, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceCreateRejectsInvalidMobile(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserInput{
		Email:    "bad-mobile@example.com",
		Password: "pw-123456",
		Mobile:   "not-a-number",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.StatusCode)
}

func TestUserServiceGetByUUID(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateUserInput{
		Email: "lookup@example.com", Password: "pw-123456",
	})
	require.NoError(t, err)

	got, err := svc.GetByUUID(context.Background(), created.UUID)
	require.NoError(t, err)
	require.Equal(t, created.Email, got.Email)

	_, err = svc.GetByUUID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceUpdateRecomputesDerivedFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := svc.Create(ctx, CreateUserInput{
		Email: "update@example.com", Password: "pw-123456",
		FirstName: "Ada", LastName: "Lovelace", Mobile: "+12025550123",
	})
	require.NoError(t, err)

	newLast := "Byron"
	updated, err := svc.Update(ctx, user.UUID, UpdateUserInput{LastName: &newLast})
	require.NoError(t, err)
	require.Equal(t, "Ada Byron", updated.FullName)

	// Clearing the mobile also clears the derived national format.
	empty := ""
	updated, err = svc.Update(ctx, user.UUID, UpdateUserInput{Mobile: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.Mobile)
	require.Empty(t, updated.NationalMobileNumber)

	reloaded, err := svc.GetByUUID(ctx, user.UUID)
	require.NoError(t, err)
	require.Nil(t, reloaded.Mobile)
	require.Empty(t, reloaded.NationalMobileNumber)
}

func TestUserServiceList(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()
	active := true
	for _, in := range []CreateUserInput{
		{Email: "one@example.com", Password: "pw-123456", FirstName: "One", LastName: "Alpha", IsActive: &active},
		{Email: "two@example.com", Password: "pw-123456", FirstName: "Two", LastName: "Beta"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	users, total, err := svc.List(ctx, ListUsersOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, users, 2)

	users, total, err = svc.List(ctx, ListUsersOptions{Filters: UserFilters{IsActive: &active}})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "one@example.com", users[0].Email)

	_, total, err = svc.List(ctx, ListUsersOptions{Filters: UserFilters{Query: "beta"}})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestUserServiceChangePassword(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := svc.Create(ctx, CreateUserInput{Email: "pw@example.com", Password: "old-secret"})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.UUID, "new-secret"))

	reloaded, err := svc.GetByUUID(ctx, user.UUID)
	require.NoError(t, err)
	require.False(t, crypto.VerifyPassword(reloaded.Password, "old-secret"))
	require.True(t, crypto.VerifyPassword(reloaded.Password, "new-secret"))

	require.ErrorIs(t, svc.ChangePassword(ctx, "missing-uuid", "whatever"), ErrUserNotFound)
}

func TestUserServiceSetActiveAndRecordLogin(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := svc.Create(ctx, CreateUserInput{Email: "state@example.com", Password: "pw-123456"})
	require.NoError(t, err)
	require.False(t, user.IsActive)

	require.NoError(t, svc.SetActive(ctx, user.UUID, true))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, svc.RecordLogin(ctx, user.UUID, now))

	reloaded, err := svc.GetByUUID(ctx, user.UUID)
	require.NoError(t, err)
	require.True(t, reloaded.IsActive)
	require.NotNil(t, reloaded.LastLogin)
}

func TestUserServiceSetLastUsedOrganization(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	userSvc, err := NewUserService(db)
	require.NoError(t, err)
	orgSvc, err := NewOrganizationService(db)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := userSvc.Create(ctx, CreateUserInput{Email: "member@example.com", Password: "pw-123456"})
	require.NoError(t, err)

	org, err := orgSvc.Create(ctx, user.UUID, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, userSvc.SetLastUsedOrganization(ctx, user.UUID, org.UUID, ""))

	reloaded, err := userSvc.GetByUUID(ctx, user.UUID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastUsedOrganizationID)
	require.Equal(t, org.UUID, *reloaded.LastUsedOrganizationID)
	require.NotNil(t, reloaded.LastUsedOrganizationName)
	require.Equal(t, "Acme", *reloaded.LastUsedOrganizationName)

	err = userSvc.SetLastUsedOrganization(ctx, user.UUID, "missing-org", "")
	require.ErrorIs(t, err, ErrOrganizationNotFound)
}
