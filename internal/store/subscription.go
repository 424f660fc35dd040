package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/internal/models"
)

// SubscriptionStore owns newsletter emails. Records are write-once.
type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Subscribe records an email for the newsletter. Idempotent: a duplicate
// attempt is reported as already=true for messaging, never as an error. The
// unique index catches the insert race and is treated the same way.
func (s *SubscriptionStore) Subscribe(email string) (already bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.Newsletter{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	sub := models.Newsletter{Email: email}
	if err := s.db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
