package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"mediassist-server/internal/models"
	"mediassist-server/internal/monitoring"
)

// MockCaseRepository is a mock implementation of CaseRepository
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) Create(ctx context.Context, c *models.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) GetForPatient(ctx context.Context, id, patientID string) (*models.Case, error) {
	args := m.Called(ctx, id, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseRepository) GetForDoctor(ctx context.Context, id, doctorID string) (*models.Case, error) {
	args := m.Called(ctx, id, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseRepository) ListForDoctor(ctx context.Context, doctorID string) ([]models.Case, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Case), args.Error(1)
}

func (m *MockCaseRepository) ListForPatient(ctx context.Context, patientID string) ([]models.Case, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Case), args.Error(1)
}

func (m *MockCaseRepository) UpdateStatus(ctx context.Context, id, doctorID string, status models.CaseStatus, at time.Time) error {
	args := m.Called(ctx, id, doctorID, status, at)
	return args.Error(0)
}

// MockDoctorDirectory is a mock implementation of DoctorDirectory
type MockDoctorDirectory struct {
	mock.Mock
}

func (m *MockDoctorDirectory) FindDoctor(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockModel is a mock implementation of llm.Model
type MockModel struct {
	mock.Mock
}

func (m *MockModel) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockModel) Name() string { return "mock-model" }

type recordingSink struct {
	mu     sync.Mutex
	events []monitoring.Event
	err    error
}

func (s *recordingSink) Record(_ context.Context, e monitoring.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}
