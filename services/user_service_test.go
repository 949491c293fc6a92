package services

import (
	"context"
	"testing"

	"claims_backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, db, testActor, UserInput{
		Name: " Ana Souza ", Email: " Ana@Example.COM ", Password: "Sup3rSecret", Role: models.RoleClaimsAdjuster,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "en", user.Language)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Sup3rSecret", user.Password)
	assert.True(t, CheckPassword("Sup3rSecret", user.Password))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := CreateUser(ctx, db, testActor, UserInput{
			Name: "Other", Email: "ANA@example.com", Password: "Sup3rSecret", Role: models.RoleUnderwriter,
		})
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "is already registered", ve.Fields["email"])
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := CreateUser(ctx, db, testActor, UserInput{
			Name: "X", Email: "not-an-email", Password: "Sup3rSecret", Role: "superuser", Language: "fr",
		})
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "email")
		assert.Contains(t, ve.Fields, "role")
		assert.Contains(t, ve.Fields, "language")
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := CreateUser(ctx, db, testActor, UserInput{
			Name: "Weak", Email: "weak@example.com", Password: "password", Role: models.RoleUnderwriter,
		})
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields["password"], "at least 10 characters")
	})
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, db, testActor, UserInput{
		Name: "Bruno Lima", Email: "bruno@example.com", Password: "Sup3rSecret", Role: models.RoleClaimsAdjuster,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := UpdateUser(ctx, db, testActor, user.ID, UserUpdate{
		Role:     strPtr(models.RoleClaimsManager),
		IsActive: &inactive,
		Language: strPtr("pt"),
		Password: strPtr("N3wPassword!"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClaimsManager, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "pt", updated.Language)
	assert.True(t, CheckPassword("N3wPassword!", updated.Password))

	history, err := GetResourceAuditHistory(ctx, db, models.AuditResourceUser, user.ID)
	require.NoError(t, err)
	for _, entry := range history {
		assert.NotContains(t, entry.NewValues, "password")
	}

	_, err = UpdateUser(ctx, db, testActor, user.ID, UserUpdate{Name: strPtr(" ")})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = UpdateUser(ctx, db, testActor, "missing", UserUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindActiveUserForAssignee(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ana, err := CreateUser(ctx, db, testActor, UserInput{
		Name: "Ana Souza", Email: "ana@example.com", Password: "Sup3rSecret", Role: models.RoleClaimsAdjuster,
	})
	require.NoError(t, err)
	carla, err := CreateUser(ctx, db, testActor, UserInput{
		Name: "Carla Dias", Email: "carla@example.com", Password: "Sup3rSecret", Role: models.RoleClaimsAdjuster,
	})
	require.NoError(t, err)
	inactive := false
	_, err = UpdateUser(ctx, db, testActor, carla.ID, UserUpdate{IsActive: &inactive})
	require.NoError(t, err)

	byEmail, err := FindActiveUserForAssignee(ctx, db, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byEmail.ID)

	byName, err := FindActiveUserForAssignee(ctx, db, " ana souza ")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byName.ID)

	_, err = FindActiveUserForAssignee(ctx, db, "carla@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = FindActiveUserForAssignee(ctx, db, "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	users, err := ListUsers(ctx, db)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana Souza", users[0].Name)

	found, err := GetUserByEmail(ctx, db, "Carla@Example.com")
	require.NoError(t, err)
	assert.Equal(t, carla.ID, found.ID)
}
