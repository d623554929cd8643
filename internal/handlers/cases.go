package handlers

import (
	"context"
	"errors"
	"mediassist-server/internal/middleware"
	"mediassist-server/internal/models"
	"mediassist-server/internal/pipeline"
	"mediassist-server/internal/store"
	"mediassist-server/internal/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CaseService is the case pipeline as seen by the HTTP layer.
type CaseService interface {
	SubmitCase(ctx context.Context, intake models.RawIntake, doctorID string, actor models.Identity) (*models.Case, error)
	GetCase(ctx context.Context, caseID string, actor models.Identity) (*models.Case, error)
	ListForDoctor(ctx context.Context, actor models.Identity) ([]models.Case, error)
	ListForPatient(ctx context.Context, actor models.Identity) ([]models.Case, error)
	MarkReviewed(ctx context.Context, caseID string, actor models.Identity) (*models.Case, error)
}

// CaseHandler serves intake submission and case review.
type CaseHandler struct {
	Cases  CaseService
	Logger *logrus.Logger
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(cases CaseService, logger *logrus.Logger) *CaseHandler {
	return &CaseHandler{Cases: cases, Logger: logger}
}

// CaseSummary is one row of a case listing.
type CaseSummary struct {
	ID               string            `json:"id"`
	PatientName      string            `json:"patientName"`
	CreatedAt        time.Time         `json:"createdAt"`
	Status           models.CaseStatus `json:"status"`
	Severity         string            `json:"severity"`
	PrimaryDiagnosis string            `json:"primaryDiagnosis"`
	IsSafe           bool              `json:"isSafe"`
}

func summarize(c *models.Case) CaseSummary {
	return CaseSummary{
		ID:               c.ID,
		PatientName:      c.Intake.Name,
		CreatedAt:        c.CreatedAt,
		Status:           c.Status,
		Severity:         c.Intake.Severity,
		PrimaryDiagnosis: c.Analysis.PatientView.PrimaryDiagnosis,
		IsSafe:           c.Analysis.Safety.IsSafe,
	}
}

// PatientCaseView is what a patient sees of their own case: the intake and
// the patient-facing half of the analysis.
type PatientCaseView struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"createdAt"`
	Status      models.CaseStatus  `json:"status"`
	Intake      models.RawIntake   `json:"rawData"`
	PatientView models.PatientView `json:"patientView"`
}

func patientView(c *models.Case) PatientCaseView {
	return PatientCaseView{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt,
		Status:      c.Status,
		Intake:      c.Intake,
		PatientView: c.Analysis.PatientView,
	}
}

// SubmitCase accepts a patient's intake form.
func (h *CaseHandler) SubmitCase(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
		return
	}

	var req models.RawIntake
	if !utils.BindAndValidate(c, &req) {
		return
	}

	rec, err := h.Cases.SubmitCase(c.Request.Context(), req, req.DoctorID, identity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	utils.Created(c, "Case submitted successfully", patientView(rec))
}

// GetPatientCases lists the caller's own cases.
func (h *CaseHandler) GetPatientCases(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	cases, err := h.Cases.ListForPatient(c.Request.Context(), identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Cases fetched successfully", summaries(cases))
}

// GetPatientCase returns one of the caller's cases without the doctor view.
func (h *CaseHandler) GetPatientCase(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	rec, err := h.Cases.GetCase(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Case fetched successfully", patientView(rec))
}

// GetDoctorCases is the doctor's dashboard, newest first.
func (h *CaseHandler) GetDoctorCases(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	cases, err := h.Cases.ListForDoctor(c.Request.Context(), identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Cases fetched successfully", summaries(cases))
}

// GetDoctorCase returns a full case assigned to the caller.
func (h *CaseHandler) GetDoctorCase(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	rec, err := h.Cases.GetCase(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Case fetched successfully", rec)
}

// ReviewCase marks an assigned case as reviewed.
func (h *CaseHandler) ReviewCase(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	rec, err := h.Cases.MarkReviewed(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Case marked as reviewed", rec)
}

func summaries(cases []models.Case) []CaseSummary {
	out := make([]CaseSummary, len(cases))
	for i := range cases {
		out[i] = summarize(&cases[i])
	}
	return out
}

// writeError maps pipeline and store errors onto the response envelope.
func (h *CaseHandler) writeError(c *gin.Context, err error) {
	log := h.Logger.WithError(err).WithField("correlation_id", middleware.GetCorrelationID(c))
	var (
		verr *pipeline.ValidationError
		uerr *pipeline.UpstreamError
		perr *pipeline.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		utils.BadRequest(c, verr.Error())
	case errors.Is(err, store.ErrCaseNotFound):
		utils.NotFound(c, "Case not found")
	case errors.Is(err, pipeline.ErrForbidden):
		utils.Forbidden(c, "You do not have permission to access this resource.")
	case errors.As(err, &uerr):
		log.Warn("analysis service unavailable")
		utils.BadGateway(c, "The analysis service is temporarily unavailable, please try again shortly")
	case errors.As(err, &perr):
		log.Error("case persistence failed")
		utils.InternalServerError(c, "Failed to save the case, please resubmit")
	default:
		log.Error("unexpected case error")
		utils.InternalServerError(c, "Unexpected error")
	}
}
