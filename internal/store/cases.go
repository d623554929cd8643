package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mediassist-server/internal/models"
)

// CaseStore persists case records. Every scoped read puts the caller's
// identity into the WHERE clause.
type CaseStore struct {
	db *gorm.DB
}

// NewCaseStore creates a new CaseStore.
func NewCaseStore(db *gorm.DB) *CaseStore {
	return &CaseStore{db: db}
}

// Create inserts a case. A taken id yields ErrDuplicateCase.
func (s *CaseStore) Create(ctx context.Context, c *models.Case) error {
	err := s.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCase
	}
	return err
}

// Get fetches a case by id without any ownership scope. It is an operator
// accessor for maintenance tooling; request paths use GetForPatient or
// GetForDoctor.
func (s *CaseStore) Get(ctx context.Context, id string) (*models.Case, error) {
	return s.first(ctx, "id = ?", id)
}

// GetForPatient fetches a case only if it belongs to patientID.
func (s *CaseStore) GetForPatient(ctx context.Context, id, patientID string) (*models.Case, error) {
	return s.first(ctx, "id = ? AND patient_id = ?", id, patientID)
}

// GetForDoctor fetches a case only if it is assigned to doctorID.
func (s *CaseStore) GetForDoctor(ctx context.Context, id, doctorID string) (*models.Case, error) {
	return s.first(ctx, "id = ? AND doctor_id = ?", id, doctorID)
}

// ListForDoctor returns the doctor's cases, newest first.
func (s *CaseStore) ListForDoctor(ctx context.Context, doctorID string) ([]models.Case, error) {
	cases, err := s.list(ctx, "doctor_id = ?", doctorID)
	if err != nil {
		return nil, err
	}
	return keep(cases, func(c *models.Case) bool { return c.DoctorID == doctorID }), nil
}

// ListForPatient returns the patient's own cases, newest first.
func (s *CaseStore) ListForPatient(ctx context.Context, patientID string) ([]models.Case, error) {
	cases, err := s.list(ctx, "patient_id = ?", patientID)
	if err != nil {
		return nil, err
	}
	return keep(cases, func(c *models.Case) bool { return c.PatientID == patientID }), nil
}

// UpdateStatus changes the status of a case assigned to doctorID.
func (s *CaseStore) UpdateStatus(ctx context.Context, id, doctorID string, status models.CaseStatus, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&models.Case{}).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Updates(map[string]interface{}{"status": status, "reviewed_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (s *CaseStore) first(ctx context.Context, query string, args ...interface{}) (*models.Case, error) {
	var c models.Case
	if err := s.db.WithContext(ctx).Where(query, args...).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *CaseStore) list(ctx context.Context, query string, args ...interface{}) ([]models.Case, error) {
	var cases []models.Case
	if err := s.db.WithContext(ctx).Where(query, args...).Order("created_at desc").Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

// keep returns only the rows satisfying ok. Scoped listings never contain
// another user's case, whatever the query returned.
func keep(cases []models.Case, ok func(*models.Case) bool) []models.Case {
	out := make([]models.Case, 0, len(cases))
	for i := range cases {
		if ok(&cases[i]) {
			out = append(out, cases[i])
		}
	}
	return out
}
