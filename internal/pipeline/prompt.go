package pipeline

import (
	"fmt"
	"strings"

	"mediassist-server/internal/models"
)

const promptTemplate = `ACT AS: Senior Clinical Consultant & Medical Scribe.
TASK: Analyze patient intake data and generate a structured clinical case file.

LANGUAGE INSTRUCTION:
- "patient_view" MUST be in %[1]s. (Translate concepts to be culturally relevant).
- "doctor_view" MUST be in ENGLISH (Standard Medical Terminology).

OUTPUT FORMAT: Return ONLY valid JSON matching this schema, with no additional keys:
{
  "patient_view": {
    "primary_diagnosis": "Most likely diagnosis in %[1]s.",
    "summary": "Warm, reassuring explanation in %[1]s.",
    "pathophysiology": "Simple analogy explaining the mechanism in %[1]s.",
    "care_plan": ["Step 1 in %[1]s", "Step 2 in %[1]s"],
    "red_flags": ["Urgent sign 1 in %[1]s", "Urgent sign 2 in %[1]s"]
  },
  "doctor_view": {
    "subjective": "Professional medical terminology summary of HPI in ENGLISH.",
    "objective": "Concise summary of reported vitals in ENGLISH.",
    "assessment": "Differential diagnosis ranked by probability in ENGLISH.",
    "plan": "Suggested pharmacotherapy, diagnostics, and follow-up in ENGLISH."
  },
  "safety": {
    "is_safe": true,
    "warnings": []
  }
}

SAFETY RULES:
- Check for Drug-Allergy interactions (e.g., Penicillin allergy vs Amoxicillin).
- Check for Contraindications based on age/history.
- If unsafe, set "is_safe": false and add warnings (in English).
`

// BuildPrompt renders the instruction template followed by the intake
// fields in a fixed order. The same intake always yields the same prompt.
func BuildPrompt(in models.RawIntake) string {
	in = in.WithDefaults()

	var b strings.Builder
	b.WriteString(fmt.Sprintf(promptTemplate, in.Language))
	b.WriteString("\nPATIENT DATA:\n")
	fmt.Fprintf(&b, "Name: %s (%sy %s)\n", in.Name, in.Age, in.Gender)
	fmt.Fprintf(&b, "Body: W:%s H:%s\n", in.Weight, in.Height)
	fmt.Fprintf(&b, "Vitals: T:%s BP:%s\n", in.Temperature, in.BloodPressure)
	fmt.Fprintf(&b, "Allergies: %s\n", in.Allergies)
	fmt.Fprintf(&b, "Meds: %s\n", in.CurrentMedications)
	fmt.Fprintf(&b, "History: %s\n", in.MedicalHistory)
	fmt.Fprintf(&b, "Chief Complaint: %s (Duration: %s, Severity: %s)\n", in.Symptoms, in.Duration, in.Severity)
	fmt.Fprintf(&b, "Notes: %s\n", in.Notes)
	fmt.Fprintf(&b, "Original Language Input: %s\n", in.Language)
	return b.String()
}
