package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	user, err := identity.Register("alice", "alice@example.com", "pw1", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, DefaultLanguage, user.Language)
	assert.Equal(t, DefaultPicture, user.Picture)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	got, err := identity.Authenticate("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = identity.Authenticate("alice", "pw2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = identity.Authenticate("nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	_, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)

	_, err = identity.Register("alice", "other@example.com", "pw2", "Spanish")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestRegisterReservedUsername(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	for _, name := range []string{"admin", "Admin", "ADMIN"} {
		_, err := identity.Register(name, "", "pw1", "")
		assert.ErrorIs(t, err, ErrReservedUsername, name)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	_, err := identity.Register("alice", "shared@example.com", "pw1", "")
	require.NoError(t, err)

	_, err = identity.Register("bob", "shared@example.com", "pw2", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterWithoutEmail(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	// Email is optional; two accounts without one must both register.
	_, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)
	_, err = identity.Register("bob", "", "pw2", "")
	require.NoError(t, err)
}

func TestFindOrProvisionByEmail(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	user, err := identity.FindOrProvisionByEmail("carol@example.com", "Carol", "https://example.com/pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Carol", user.Username)
	assert.Equal(t, FederatedCredential, user.PasswordHash)
	assert.Equal(t, "https://example.com/pic.jpg", user.Picture)

	// Second login resolves to the same account.
	again, err := identity.FindOrProvisionByEmail("carol@example.com", "Carol Renamed", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	// The sentinel credential never passes password login.
	_, err = identity.Authenticate("Carol", FederatedCredential)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProvisionUsernameCollision(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	_, err := identity.Register("jane", "", "pw1", "")
	require.NoError(t, err)

	user, err := identity.FindOrProvisionByEmail("jane@example.com", "jane", "")
	require.NoError(t, err)
	assert.Equal(t, "jane2", user.Username)
}

func TestProvisionReservedDisplayName(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	user, err := identity.FindOrProvisionByEmail("root@example.com", "admin", "")
	require.NoError(t, err)
	assert.NotEqual(t, ReservedAdminUsername, user.Username)
}

func TestUpdateProfile(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	user, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)

	email := "alice@example.com"
	mobile := "07700900000"
	lang := "French"
	require.NoError(t, identity.UpdateProfile(user.ID, ProfileChanges{
		Email:    &email,
		Mobile:   &mobile,
		Language: &lang,
	}))

	got, err := identity.ByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)
	assert.Equal(t, mobile, got.Mobile)
	assert.Equal(t, lang, got.Language)
	// Untouched fields keep their values.
	assert.Equal(t, DefaultPicture, got.Picture)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	_, err := identity.Register("alice", "alice@example.com", "pw1", "")
	require.NoError(t, err)
	bob, err := identity.Register("bob", "bob@example.com", "pw2", "")
	require.NoError(t, err)

	taken := "alice@example.com"
	err = identity.UpdateProfile(bob.ID, ProfileChanges{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Re-submitting your own email is not a collision.
	own := "bob@example.com"
	assert.NoError(t, identity.UpdateProfile(bob.ID, ProfileChanges{Email: &own}))
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t))

	err := identity.UpdateProfile(999, ProfileChanges{})
	assert.ErrorIs(t, err, ErrNotFound)
}
