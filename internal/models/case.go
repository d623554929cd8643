package models

import (
	"strings"
	"time"
)

// CaseStatus represents where a case is in the doctor's review workflow
type CaseStatus string

const (
	CaseStatusPendingReview CaseStatus = "Pending Review"
	CaseStatusReviewed      CaseStatus = "Reviewed"
)

// NoneValue stands in for optional intake fields the patient left empty.
const NoneValue = "None"

// DefaultLanguage is used for the patient view when no language is chosen.
const DefaultLanguage = "English"

// RawIntake is the form a patient submits, stored as-is next to the analysis.
type RawIntake struct {
	Name               string `json:"name" validate:"max=200"`
	Age                string `json:"age" validate:"max=20"`
	Gender             string `json:"gender" validate:"max=50"`
	Weight             string `json:"weight" validate:"max=50"`
	Height             string `json:"height" validate:"max=50"`
	Temperature        string `json:"temperature" validate:"max=50"`
	BloodPressure      string `json:"blood_pressure" validate:"max=50"`
	Duration           string `json:"duration" validate:"max=200"`
	Allergies          string `json:"allergies" validate:"max=2000"`
	CurrentMedications string `json:"current_medications" validate:"max=2000"`
	MedicalHistory     string `json:"medical_history" validate:"max=4000"`
	Severity           string `json:"severity" validate:"max=50"`
	Symptoms           string `json:"symptoms" validate:"required,max=8000"`
	Notes              string `json:"notes" validate:"max=4000"`
	Language           string `json:"language" validate:"max=50"`
	DoctorID           string `json:"doctor_id"`
}

// WithDefaults fills the optional history fields with "None" and the
// language with English.
func (r RawIntake) WithDefaults() RawIntake {
	r.Allergies = orNone(r.Allergies)
	r.CurrentMedications = orNone(r.CurrentMedications)
	r.MedicalHistory = orNone(r.MedicalHistory)
	if strings.TrimSpace(r.Language) == "" {
		r.Language = DefaultLanguage
	}
	return r
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoneValue
	}
	return s
}

// PatientView is the layperson-facing half of an analysis, written in the
// patient's language.
type PatientView struct {
	PrimaryDiagnosis string   `json:"primary_diagnosis"`
	Summary          string   `json:"summary"`
	Pathophysiology  string   `json:"pathophysiology"`
	CarePlan         []string `json:"care_plan"`
	RedFlags         []string `json:"red_flags"`
}

// DoctorView is the SOAP note for the clinician. The *List fields are
// derived locally from the narrative fields.
type DoctorView struct {
	Subjective     string   `json:"subjective"`
	Objective      string   `json:"objective"`
	Assessment     string   `json:"assessment"`
	Plan           string   `json:"plan"`
	SubjectiveList []string `json:"subjective_list"`
	ObjectiveList  []string `json:"objective_list"`
	AssessmentList []string `json:"assessment_list"`
	PlanList       []string `json:"plan_list"`
}

// Safety carries the model's drug/allergy and contraindication check.
type Safety struct {
	IsSafe   bool     `json:"is_safe"`
	Warnings []string `json:"warnings"`
}

// CaseAnalysis is the post-processed model output.
type CaseAnalysis struct {
	PatientView PatientView `json:"patient_view"`
	DoctorView  DoctorView  `json:"doctor_view"`
	Safety      Safety      `json:"safety"`
}

// Case is one intake submission plus its analysis. Only Status and
// ReviewedAt change after creation.
type Case struct {
	ID         string       `gorm:"primaryKey;type:varchar(16)" json:"id"`
	PatientID  string       `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID   string       `gorm:"size:36;index;not null" json:"doctorId"`
	CreatedAt  time.Time    `gorm:"index" json:"createdAt"`
	Intake     RawIntake    `gorm:"column:raw_data;type:json;serializer:json" json:"rawData"`
	Analysis   CaseAnalysis `gorm:"column:ai_analysis;type:json;serializer:json" json:"aiAnalysis"`
	Status     CaseStatus   `gorm:"size:20;default:'Pending Review'" json:"status"`
	ReviewedAt *time.Time   `json:"reviewedAt,omitempty"`
}

// TableName pins the table name used by the store queries.
func (Case) TableName() string { return "cases" }
