// Package pipeline turns a patient intake into a stored, analysed case and
// serves the role-scoped reads on those cases.
package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"mediassist-server/internal/llm"
	"mediassist-server/internal/models"
	"mediassist-server/internal/monitoring"
	"mediassist-server/internal/store"
)

const (
	maxIDAttempts  = 4
	monitorTimeout = 2 * time.Second
)

// CaseRepository is the case persistence the pipeline needs.
type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	GetForPatient(ctx context.Context, id, patientID string) (*models.Case, error)
	GetForDoctor(ctx context.Context, id, doctorID string) (*models.Case, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]models.Case, error)
	ListForPatient(ctx context.Context, patientID string) ([]models.Case, error)
	UpdateStatus(ctx context.Context, id, doctorID string, status models.CaseStatus, at time.Time) error
}

// DoctorDirectory resolves doctor ids. Unknown ids yield store.ErrUserNotFound.
type DoctorDirectory interface {
	FindDoctor(ctx context.Context, id string) (*models.User, error)
}

// Options tunes a Service. Zero values pick the defaults.
type Options struct {
	Policy    DiagnosisPolicy
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Now       func() time.Time
}

// Service runs the intake pipeline.
type Service struct {
	cases    CaseRepository
	doctors  DoctorDirectory
	model    llm.Model
	sink     monitoring.Sink
	logger   *logrus.Logger
	validate *validator.Validate
	cache    *analysisCache
	policy   DiagnosisPolicy
	timeout  time.Duration
	now      func() time.Time
}

// NewService wires a Service.
func NewService(cases CaseRepository, doctors DoctorDirectory, model llm.Model, sink monitoring.Sink, logger *logrus.Logger, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = PolicyAlways
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if sink == nil {
		sink = monitoring.Multi{}
	}
	return &Service{
		cases:    cases,
		doctors:  doctors,
		model:    model,
		sink:     sink,
		logger:   logger,
		validate: newValidator(),
		cache:    newAnalysisCache(opts.CacheSize, opts.CacheTTL),
		policy:   opts.Policy,
		timeout:  opts.Timeout,
		now:      opts.Now,
	}
}

// SubmitCase validates the intake, asks the model for an analysis, cleans
// it up and stores the case as Pending Review for doctorID.
func (s *Service) SubmitCase(ctx context.Context, intake models.RawIntake, doctorID string, actor models.Identity) (*models.Case, error) {
	if actor.Role != models.RolePatient {
		return nil, ErrForbidden
	}
	if doctorID == "" {
		return nil, &ValidationError{Field: "doctor_id", Message: "please select a doctor"}
	}
	if err := s.validate.Struct(intake); err != nil {
		return nil, validationFromStruct(err)
	}
	if _, err := s.doctors.FindDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, &ValidationError{Field: "doctor_id", Message: "unknown doctor"}
		}
		return nil, &PersistenceError{Op: "find doctor", Err: err}
	}

	intake = intake.WithDefaults()
	intake.DoctorID = doctorID
	prompt := BuildPrompt(intake)
	key := promptKey(prompt)

	pending, ok := s.cache.get(key)
	if ok {
		s.logger.WithField("doctor_id", doctorID).Info("reusing pending analysis")
	} else {
		var err error
		pending, err = s.analyse(ctx, prompt)
		if err != nil {
			return nil, err
		}
		s.cache.add(key, pending)
	}

	rec := &models.Case{
		PatientID: actor.ID,
		DoctorID:  doctorID,
		CreatedAt: s.now(),
		Intake:    intake,
		Analysis:  pending.analysis,
		Status:    models.CaseStatusPendingReview,
	}
	if err := s.create(ctx, rec); err != nil {
		return nil, err
	}
	s.cache.remove(key)

	s.record(ctx, monitoring.NewEvent(rec.ID, pending.model, rec.CreatedAt, pending.latency, intake.Symptoms))
	return rec, nil
}

func (s *Service) analyse(ctx context.Context, prompt string) (pendingAnalysis, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	body, err := s.model.Generate(callCtx, prompt)
	latency := time.Since(start)
	if err != nil {
		s.logger.WithError(err).WithField("model", s.model.Name()).Warn("model call failed")
		return pendingAnalysis{}, &UpstreamError{Op: "generate analysis", Err: err}
	}

	analysis, err := ParseAnalysis(body)
	if err != nil {
		s.logger.WithError(err).WithField("model", s.model.Name()).Warn("model response rejected")
		return pendingAnalysis{}, &UpstreamError{Op: "parse analysis", Err: err}
	}
	Finalize(analysis, s.policy)

	return pendingAnalysis{analysis: *analysis, model: s.model.Name(), latency: latency}, nil
}

// create stores rec under a fresh id, drawing a new one on collision.
func (s *Service) create(ctx context.Context, rec *models.Case) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		rec.ID = NewCaseID()
		err = s.cases.Create(ctx, rec)
		if !errors.Is(err, store.ErrDuplicateCase) {
			break
		}
		s.logger.WithField("case_id", rec.ID).Debug("case id collision, regenerating")
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to store case")
		return &PersistenceError{Op: "create case", Err: err}
	}
	return nil
}

// record sends the monitoring event. Failures are logged only.
func (s *Service) record(ctx context.Context, e monitoring.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), monitorTimeout)
	defer cancel()
	if err := s.sink.Record(ctx, e); err != nil {
		s.logger.WithError(err).WithField("case_id", e.CaseID).Warn("monitoring record failed")
	}
}

// GetCase returns a case the actor owns or is assigned to. Any other case
// reads as store.ErrCaseNotFound.
func (s *Service) GetCase(ctx context.Context, caseID string, actor models.Identity) (*models.Case, error) {
	var (
		c   *models.Case
		err error
	)
	switch actor.Role {
	case models.RolePatient:
		c, err = s.cases.GetForPatient(ctx, caseID, actor.ID)
	case models.RoleDoctor:
		c, err = s.cases.GetForDoctor(ctx, caseID, actor.ID)
	default:
		return nil, store.ErrCaseNotFound
	}
	return c, readError("get case", err)
}

// ListForDoctor returns the cases assigned to the acting doctor, newest first.
func (s *Service) ListForDoctor(ctx context.Context, actor models.Identity) ([]models.Case, error) {
	if actor.Role != models.RoleDoctor {
		return nil, ErrForbidden
	}
	cases, err := s.cases.ListForDoctor(ctx, actor.ID)
	return cases, readError("list doctor cases", err)
}

// ListForPatient returns the acting patient's own cases, newest first.
func (s *Service) ListForPatient(ctx context.Context, actor models.Identity) ([]models.Case, error) {
	if actor.Role != models.RolePatient {
		return nil, ErrForbidden
	}
	cases, err := s.cases.ListForPatient(ctx, actor.ID)
	return cases, readError("list patient cases", err)
}

// MarkReviewed moves an assigned case to Reviewed. Reviewing twice is a
// no-op.
func (s *Service) MarkReviewed(ctx context.Context, caseID string, actor models.Identity) (*models.Case, error) {
	if actor.Role != models.RoleDoctor {
		return nil, ErrForbidden
	}
	c, err := s.cases.GetForDoctor(ctx, caseID, actor.ID)
	if err != nil {
		return nil, readError("get case", err)
	}
	if c.Status == models.CaseStatusReviewed {
		return c, nil
	}

	at := s.now()
	if err := s.cases.UpdateStatus(ctx, caseID, actor.ID, models.CaseStatusReviewed, at); err != nil {
		if errors.Is(err, store.ErrCaseNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "mark reviewed", Err: err}
	}
	c.Status = models.CaseStatusReviewed
	c.ReviewedAt = &at
	return c, nil
}

func readError(op string, err error) error {
	if err == nil || errors.Is(err, store.ErrCaseNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationFromStruct(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: "failed " + fe.Tag() + " check"}
	}
	return &ValidationError{Message: err.Error()}
}
