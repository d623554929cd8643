package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mediassist-server/internal/models"
)

var errMissingAssessment = errors.New("doctor_view.assessment is empty")

var topLevelKeys = map[string]bool{
	"patient_view": true,
	"doctor_view":  true,
	"safety":       true,
}

// ParseAnalysis decodes a model response. A body that is not JSON gets one
// retry with code fences stripped. The decoded document must carry both
// views as objects, no unknown top-level keys and a non-empty assessment.
func ParseAnalysis(body string) (*models.CaseAnalysis, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		if err2 := json.Unmarshal([]byte(stripCodeFences(body)), &doc); err2 != nil {
			return nil, fmt.Errorf("response is not JSON: %w", err)
		}
	}
	if doc == nil {
		return nil, errors.New("response is not a JSON object")
	}

	for key := range doc {
		if !topLevelKeys[key] {
			return nil, fmt.Errorf("unexpected top-level key %q", key)
		}
	}
	for _, key := range []string{"patient_view", "doctor_view"} {
		if !isObject(doc[key]) {
			return nil, fmt.Errorf("%s is missing or not an object", key)
		}
	}

	var a models.CaseAnalysis
	if err := json.Unmarshal(doc["patient_view"], &a.PatientView); err != nil {
		return nil, fmt.Errorf("decode patient_view: %w", err)
	}
	if err := json.Unmarshal(doc["doctor_view"], &a.DoctorView); err != nil {
		return nil, fmt.Errorf("decode doctor_view: %w", err)
	}
	if strings.TrimSpace(a.DoctorView.Assessment) == "" {
		return nil, errMissingAssessment
	}

	if raw, ok := doc["safety"]; ok && isObject(raw) {
		if err := json.Unmarshal(raw, &a.Safety); err != nil {
			return nil, fmt.Errorf("decode safety: %w", err)
		}
	} else {
		a.Safety = models.Safety{IsSafe: false, Warnings: []string{missingSafetyWarning}}
	}
	return &a, nil
}

const missingSafetyWarning = "Automated safety check unavailable; review allergies and medications manually."

func isObject(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "{")
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
