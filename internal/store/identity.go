package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/utils"
)

const (
	// ReservedAdminUsername is held by the single admin account seeded at
	// startup; registration rejects it in any casing.
	ReservedAdminUsername = "admin"

	// FederatedCredential marks accounts provisioned through federated
	// login. It is not a bcrypt hash, so password login can never match it.
	FederatedCredential = "federated"

	DefaultLanguage = "English"
	DefaultPicture  = "default.png"
)

// IdentityStore owns user records: registration, credential checks,
// federated provisioning and profile updates.
type IdentityStore struct {
	db *gorm.DB
}

func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// Register creates a local account. The reserved admin name is rejected in
// any casing, and username/email uniqueness is checked up front; the unique
// indexes back the check under races.
func (s *IdentityStore) Register(username, email, password, language string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if strings.EqualFold(username, ReservedAdminUsername) {
		return nil, ErrReservedUsername
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	var emailRef *string
	if email = strings.TrimSpace(email); email != "" {
		if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateEmail
		}
		emailRef = &email
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if language == "" {
		language = DefaultLanguage
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        emailRef,
		Picture:      DefaultPicture,
		Language:     language,
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a local credential. Unknown usernames, wrong
// passwords and federated-only accounts all fail the same way so the caller
// learns nothing about which part was wrong.
func (s *IdentityStore) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindOrProvisionByEmail resolves a federated login. Idempotent: an existing
// account with the verified email wins; otherwise a new account is created
// with the federated credential marker and the provider's display name and
// picture.
func (s *IdentityStore) FindOrProvisionByEmail(email, displayName, picture string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username, err := s.availableUsername(displayName, email)
	if err != nil {
		return nil, err
	}
	if picture == "" {
		picture = DefaultPicture
	}

	user = models.User{
		Username:     username,
		PasswordHash: FederatedCredential,
		Email:        &email,
		Picture:      picture,
		Language:     DefaultLanguage,
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// availableUsername picks a free username for a provisioned account,
// suffixing a counter when the preferred name is taken or reserved.
func (s *IdentityStore) availableUsername(displayName, email string) (string, error) {
	base := strings.TrimSpace(displayName)
	if base == "" {
		base = strings.Split(email, "@")[0]
	}
	if base == "" || strings.EqualFold(base, ReservedAdminUsername) {
		base = "reader"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// ProfileChanges carries optional profile fields; nil means keep.
type ProfileChanges struct {
	Email    *string
	Mobile   *string
	Language *string
	Picture  *string
}

// UpdateProfile applies the requested changes, rejecting an email already
// owned by a different account.
func (s *IdentityStore) UpdateProfile(userID uint, changes ProfileChanges) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if email != "" {
			var count int64
			if err := s.db.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateEmail
			}
			user.Email = &email
		}
	}
	if changes.Mobile != nil {
		user.Mobile = strings.TrimSpace(*changes.Mobile)
	}
	if changes.Language != nil && *changes.Language != "" {
		user.Language = *changes.Language
	}
	if changes.Picture != nil && *changes.Picture != "" {
		user.Picture = *changes.Picture
	}

	return s.db.Save(&user).Error
}

// ByID loads a user for session resolution.
func (s *IdentityStore) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
