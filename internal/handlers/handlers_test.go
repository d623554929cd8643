package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediassist-server/internal/config"
	"mediassist-server/internal/middleware"
	"mediassist-server/internal/models"
	"mediassist-server/internal/pipeline"
	"mediassist-server/internal/store"
	"mediassist-server/internal/utils"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListDoctors(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockCaseService is a mock implementation of CaseService
type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) SubmitCase(ctx context.Context, intake models.RawIntake, doctorID string, actor models.Identity) (*models.Case, error) {
	args := m.Called(ctx, intake, doctorID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseService) GetCase(ctx context.Context, caseID string, actor models.Identity) (*models.Case, error) {
	args := m.Called(ctx, caseID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseService) ListForDoctor(ctx context.Context, actor models.Identity) ([]models.Case, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Case), args.Error(1)
}

func (m *MockCaseService) ListForPatient(ctx context.Context, actor models.Identity) ([]models.Case, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Case), args.Error(1)
}

func (m *MockCaseService) MarkReviewed(ctx context.Context, caseID string, actor models.Identity) (*models.Case, error) {
	args := m.Called(ctx, caseID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

var (
	patientActor = models.Identity{ID: "pat-1", Role: models.RolePatient}
	doctorActor  = models.Identity{ID: "doc-1", Role: models.RoleDoctor}
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationMinutes: 30, Environment: "development"}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.FatalLevel)
	return l
}

// withIdentity stands in for AuthMiddleware.
func withIdentity(id models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, id)
		c.Next()
	}
}

func caseRouter(svc CaseService, id models.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCaseHandler(svc, quietLogger())
	g := r.Group("/", withIdentity(id))
	g.POST("/patient/cases", h.SubmitCase)
	g.GET("/patient/cases", h.GetPatientCases)
	g.GET("/patient/cases/:id", h.GetPatientCase)
	g.GET("/doctor/cases", h.GetDoctorCases)
	g.GET("/doctor/cases/:id", h.GetDoctorCase)
	g.PATCH("/doctor/cases/:id/review", h.ReviewCase)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, utils.ResponseData) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.ResponseData
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func sampleCase() *models.Case {
	return &models.Case{
		ID:        "ABCD1234",
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		Intake:    models.RawIntake{Name: "Jane", Symptoms: "cough", Severity: "Mild"},
		Analysis: models.CaseAnalysis{
			PatientView: models.PatientView{PrimaryDiagnosis: "Acute bronchitis, viral"},
			DoctorView:  models.DoctorView{Assessment: "Acute bronchitis, viral"},
			Safety:      models.Safety{IsSafe: true},
		},
		Status: models.CaseStatusPendingReview,
	}
}

func TestSubmitCase_Created(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("SubmitCase", mock.Anything, mock.MatchedBy(func(in models.RawIntake) bool {
		return in.Symptoms == "cough" && in.DoctorID == "doc-1"
	}), "doc-1", patientActor).Return(sampleCase(), nil)

	w, resp := do(caseRouter(svc, patientActor), http.MethodPost, "/patient/cases", `{"symptoms":"cough","doctor_id":"doc-1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ABCD1234", data["id"])
	assert.NotContains(t, w.Body.String(), "doctor_view", "patients do not receive the SOAP note")
	svc.AssertExpectations(t)
}

func TestSubmitCase_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &pipeline.ValidationError{Field: "doctor_id", Message: "please select a doctor"}, http.StatusBadRequest},
		{"upstream", &pipeline.UpstreamError{Op: "generate analysis", Err: context.DeadlineExceeded}, http.StatusBadGateway},
		{"persistence", &pipeline.PersistenceError{Op: "create case", Err: errors.New("db down")}, http.StatusInternalServerError},
		{"forbidden", pipeline.ErrForbidden, http.StatusForbidden},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCaseService)
			svc.On("SubmitCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w, resp := do(caseRouter(svc, patientActor), http.MethodPost, "/patient/cases", `{"symptoms":"cough"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSubmitCase_MissingSymptoms(t *testing.T) {
	svc := new(MockCaseService)
	w, resp := do(caseRouter(svc, patientActor), http.MethodPost, "/patient/cases", `{"doctor_id":"doc-1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "symptoms is required")
	svc.AssertNotCalled(t, "SubmitCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPatientCase(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("GetCase", mock.Anything, "ABCD1234", patientActor).Return(sampleCase(), nil)
	svc.On("GetCase", mock.Anything, "ZZZZ0000", patientActor).Return(nil, store.ErrCaseNotFound)
	r := caseRouter(svc, patientActor)

	w, _ := do(r, http.MethodGet, "/patient/cases/ABCD1234", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acute bronchitis, viral")

	w, _ = do(r, http.MethodGet, "/patient/cases/ZZZZ0000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDoctorCases(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("ListForDoctor", mock.Anything, doctorActor).Return([]models.Case{*sampleCase()}, nil)

	w, resp := do(caseRouter(svc, doctorActor), http.MethodGet, "/doctor/cases", "")
	require.Equal(t, http.StatusOK, w.Code)

	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Jane", row["patientName"])
	assert.Equal(t, "Acute bronchitis, viral", row["primaryDiagnosis"])
	assert.Equal(t, "Mild", row["severity"])
}

func TestGetPatientCases_Empty(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("ListForPatient", mock.Anything, patientActor).Return([]models.Case{}, nil)

	w, resp := do(caseRouter(svc, patientActor), http.MethodGet, "/patient/cases", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, resp.Data)
}

func TestGetDoctorCase_IncludesDoctorView(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("GetCase", mock.Anything, "ABCD1234", doctorActor).Return(sampleCase(), nil)

	w, _ := do(caseRouter(svc, doctorActor), http.MethodGet, "/doctor/cases/ABCD1234", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doctor_view")
}

func TestReviewCase(t *testing.T) {
	reviewed := sampleCase()
	reviewed.Status = models.CaseStatusReviewed
	svc := new(MockCaseService)
	svc.On("MarkReviewed", mock.Anything, "ABCD1234", doctorActor).Return(reviewed, nil)
	svc.On("MarkReviewed", mock.Anything, "OTHER000", doctorActor).Return(nil, store.ErrCaseNotFound)
	r := caseRouter(svc, doctorActor)

	w, resp := do(r, http.MethodPatch, "/doctor/cases/ABCD1234/review", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reviewed", resp.Data.(map[string]interface{})["status"])

	w, _ = do(r, http.MethodPatch, "/doctor/cases/OTHER000/review", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func authRouter(users UserRepository, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(users, cfg)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/profile", middleware.AuthMiddleware(cfg), h.GetProfile)
	r.GET("/doctors", NewUserHandler(users).GetDoctors)
	return r
}

func TestRegister(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "jane" && u.Role == models.RolePatient && u.Specialty == "" && u.Password != "correct-horse"
	})).Return(nil).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(store.ErrDuplicateUser)
	r := authRouter(users, testConfig())

	body := `{"username":"jane","password":"correct-horse","fullName":"Jane Doe"}`
	w, resp := do(r, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "correct-horse")
	assert.Equal(t, "jane", resp.Data.(map[string]interface{})["username"])
	assert.Equal(t, "patient", resp.Data.(map[string]interface{})["role"])

	w, resp = do(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username is already taken", resp.Error)

	w, _ = do(r, http.MethodPost, "/auth/register", `{"username":"x","password":"short","fullName":"X","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DoctorRoleRejected(t *testing.T) {
	users := new(MockUserRepository)
	r := authRouter(users, testConfig())

	body := `{"username":"drhouse","password":"vicodin123","fullName":"Gregory House","role":"doctor","specialty":"Diagnostics"}`
	w, resp := do(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, resp.Error)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginAndProfile(t *testing.T) {
	cfg := testConfig()
	user := &models.User{BaseModel: models.BaseModel{ID: "pat-1"}, Username: "jane", FullName: "Jane Doe", Role: models.RolePatient}
	require.NoError(t, user.SetPassword("correct-horse"))

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "jane").Return(user, nil)
	users.On("FindByUsername", mock.Anything, "nobody").Return(nil, store.ErrUserNotFound)
	users.On("FindByID", mock.Anything, "pat-1").Return(user, nil)
	r := authRouter(users, cfg)

	w, _ := do(r, http.MethodPost, "/auth/login", `{"username":"jane","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(r, http.MethodPost, "/auth/login", `{"username":"nobody","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(r, http.MethodPost, "/auth/login", `{"username":"jane","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.AuthCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.AddCookie(session)
	pw := httptest.NewRecorder()
	r.ServeHTTP(pw, req)
	assert.Equal(t, http.StatusOK, pw.Code)
	assert.Contains(t, pw.Body.String(), "Jane Doe")
}

func TestLogoutClearsCookie(t *testing.T) {
	r := authRouter(new(MockUserRepository), testConfig())
	w, _ := do(r, http.MethodPost, "/auth/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, "", w.Result().Cookies()[0].Value)
	assert.True(t, w.Result().Cookies()[0].MaxAge < 0)
}

func TestGetDoctors(t *testing.T) {
	users := new(MockUserRepository)
	users.On("ListDoctors", mock.Anything).Return([]models.User{
		{BaseModel: models.BaseModel{ID: "doc-1"}, FullName: "Dr. Ada Smith", Specialty: "Cardiology", Role: models.RoleDoctor},
	}, nil)

	w, resp := do(authRouter(users, testConfig()), http.MethodGet, "/doctors", "")
	require.Equal(t, http.StatusOK, w.Code)
	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]interface{}{"id": "doc-1", "name": "Dr. Ada Smith", "specialty": "Cardiology"}, rows[0])
}
