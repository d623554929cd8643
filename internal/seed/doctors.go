// Package seed provisions doctor accounts from an operator-managed file.
// Self-registration only creates patients.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"mediassist-server/internal/models"
	"mediassist-server/internal/store"
)

// Doctor is one entry of the seed file.
type Doctor struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FullName  string `json:"fullName" validate:"required,max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Specialty string `json:"specialty" validate:"required,max=100"`
}

// Users is the slice of the user store the seeder touches.
type Users interface {
	Create(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

var validate = validator.New()

// LoadDoctors reads and validates a JSON array of doctors.
func LoadDoctors(path string) ([]Doctor, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read doctor seed: %w", err)
	}
	var doctors []Doctor
	if err := json.Unmarshal(blob, &doctors); err != nil {
		return nil, fmt.Errorf("decode doctor seed: %w", err)
	}
	seen := make(map[string]bool, len(doctors))
	for i, d := range doctors {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("doctor seed entry %d: %w", i, err)
		}
		if seen[d.Username] {
			return nil, fmt.Errorf("doctor seed entry %d: duplicate username %q", i, d.Username)
		}
		seen[d.Username] = true
	}
	return doctors, nil
}

// SeedDoctors creates every doctor whose username is not taken yet and
// returns how many were created. Existing accounts are left as they are,
// so running it on every start is safe.
func SeedDoctors(ctx context.Context, users Users, doctors []Doctor, logger *logrus.Logger) (int, error) {
	created := 0
	for _, d := range doctors {
		existing, err := users.FindByUsername(ctx, d.Username)
		switch {
		case err == nil:
			if existing.Role != models.RoleDoctor {
				logger.WithField("username", d.Username).Warn("Seed username belongs to a non-doctor account, skipped")
			}
			continue
		case !errors.Is(err, store.ErrUserNotFound):
			return created, fmt.Errorf("look up %q: %w", d.Username, err)
		}

		user := models.User{
			Username:  d.Username,
			FullName:  d.FullName,
			Email:     d.Email,
			Role:      models.RoleDoctor,
			Specialty: d.Specialty,
		}
		if err := user.SetPassword(d.Password); err != nil {
			return created, fmt.Errorf("hash password for %q: %w", d.Username, err)
		}
		if err := users.Create(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				continue
			}
			return created, fmt.Errorf("create %q: %w", d.Username, err)
		}
		created++
		logger.WithField("username", d.Username).Info("Doctor account provisioned")
	}
	return created, nil
}
