package clinical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToList(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", []string{}},
		{"numbered from first line", "1. Take rest\n2. Drink fluids", []string{"Take rest", "Drink fluids"}},
		{
			"numbered with preamble",
			"Plan:\n1. Start amoxicillin 500mg TID\n2. Recheck in 48h",
			[]string{"Start amoxicillin 500mg TID", "Recheck in 48h"},
		},
		{
			"bullets",
			"Findings:\n- Fever 38.5C\n* Productive cough",
			[]string{"Fever 38.5C", "Productive cough"},
		},
		{
			"numbered wins over bullets",
			"Plan:\n1. Rest\n- not a separate item",
			[]string{"Rest\n- not a separate item"},
		},
		{
			"sentences",
			"Patient reports fever for three days. Denies chest pain! Ok.",
			[]string{"Patient reports fever for three days.", "Denies chest pain!"},
		},
		{
			"lines and sentences",
			"Afebrile, normotensive.\nLungs clear on auscultation? Unknown.",
			[]string{"Afebrile, normotensive.", "Lungs clear on auscultation?"},
		},
		{"short text falls back to itself", "Stable.", []string{"Stable."}},
		{"empty marker falls back to text", "Plan:\n1. ", []string{"Plan:\n1. "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToList(tt.text))
		})
	}
}

func TestToList_NeverEmptyForNonEmptyInput(t *testing.T) {
	inputs := []string{"x", " ", "\n", "1.", "- ", "Short. Tiny.", "A long enough sentence here"}
	for _, in := range inputs {
		assert.NotEmpty(t, ToList(in), "input %q", in)
	}
}
