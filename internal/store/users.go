package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mediassist-server/internal/models"
)

// UserStore persists patient and doctor accounts.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. A taken username yields ErrDuplicateUser.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return err
}

// FindByUsername looks a user up by login name.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

// FindByID looks a user up by id.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

// FindDoctor returns the user with the given id only if it is a doctor.
func (s *UserStore) FindDoctor(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ? AND role = ?", id, models.RoleDoctor)
}

// ListDoctors returns every doctor ordered by name.
func (s *UserStore) ListDoctors(ctx context.Context) ([]models.User, error) {
	var doctors []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleDoctor).Order("full_name").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *UserStore) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
