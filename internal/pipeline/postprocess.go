package pipeline

import (
	"fmt"
	"strings"

	"mediassist-server/internal/clinical"
	"mediassist-server/internal/models"
)

// DiagnosisPolicy decides where patient_view.primary_diagnosis comes from.
type DiagnosisPolicy string

const (
	// PolicyAlways derives the diagnosis from the assessment every time.
	PolicyAlways DiagnosisPolicy = "always"
	// PolicyFallback keeps a non-empty model value and derives otherwise.
	PolicyFallback DiagnosisPolicy = "fallback"
)

// ParseDiagnosisPolicy maps a config value to a policy. Empty means always.
func ParseDiagnosisPolicy(s string) (DiagnosisPolicy, error) {
	switch DiagnosisPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAlways:
		return PolicyAlways, nil
	case PolicyFallback:
		return PolicyFallback, nil
	default:
		return "", fmt.Errorf("unknown diagnosis policy %q", s)
	}
}

// Finalize cleans every free-text field, fills the doctor-view lists and
// sets the primary diagnosis.
func Finalize(a *models.CaseAnalysis, policy DiagnosisPolicy) {
	pv := &a.PatientView
	pv.Summary = clinical.Normalize(pv.Summary)
	pv.Pathophysiology = clinical.Normalize(pv.Pathophysiology)
	pv.CarePlan = clinical.NormalizeAll(pv.CarePlan)
	pv.RedFlags = clinical.NormalizeAll(pv.RedFlags)

	dv := &a.DoctorView
	dv.Subjective = clinical.Normalize(dv.Subjective)
	dv.Objective = clinical.Normalize(dv.Objective)
	dv.Assessment = clinical.Normalize(dv.Assessment)
	dv.Plan = clinical.Normalize(dv.Plan)
	dv.SubjectiveList = clinical.ToList(dv.Subjective)
	dv.ObjectiveList = clinical.ToList(dv.Objective)
	dv.AssessmentList = clinical.ToList(dv.Assessment)
	dv.PlanList = clinical.ToList(dv.Plan)

	a.Safety.Warnings = clinical.NormalizeAll(a.Safety.Warnings)

	modelDiagnosis := clinical.Normalize(pv.PrimaryDiagnosis)
	if policy == PolicyFallback && modelDiagnosis != "" {
		pv.PrimaryDiagnosis = modelDiagnosis
		return
	}
	pv.PrimaryDiagnosis = clinical.ExtractPrimary(dv.Assessment)
}
