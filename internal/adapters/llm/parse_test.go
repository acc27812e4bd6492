package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation_FollowUpWithQuestion(t *testing.T) {
	content := `The answer covers the basics but lacks depth.
Follow-up needed.
How would your design behave if the cache node goes down?`

	needs, q := ParseEvaluation(content)
	require.True(t, needs)
	assert.Equal(t, "How would your design behave if the cache node goes down?", q)
}

func TestParseEvaluation_FollowUpWithoutExtractableQuestion(t *testing.T) {
	content := "The answer is shallow. I would ask a follow-up about error handling."

	needs, q := ParseEvaluation(content)
	require.True(t, needs)
	assert.Equal(t, defaultFollowUp, q)
}

func TestParseEvaluation_NoFollowUp(t *testing.T) {
	needs, q := ParseEvaluation("The answer is sufficient and well structured.")
	assert.False(t, needs)
	assert.Empty(t, q)
}

func TestParseSummary_Sections(t *testing.T) {
	content := `Overall Assessment
The candidate communicated clearly and meets the bar for this level.

Strengths
- Clear structure
- Good tradeoff analysis

Areas for Improvement
1. Quantify impact
2) Slow to recover from hints

Examples
- Mentioned consistent hashing when asked about sharding`

	s := ParseSummary(content)
	assert.Contains(t, s.OverallAssessment, "meets the bar")
	assert.Equal(t, []string{"Clear structure", "Good tradeoff analysis"}, s.Strengths)
	assert.Equal(t, []string{"Quantify impact", "Slow to recover from hints"}, s.ImprovementAreas)
	require.Len(t, s.Examples, 1)
	assert.True(t, s.MeetsBar)
}

func TestParseSummary_NoMarkersYieldsEmptySections(t *testing.T) {
	s := ParseSummary("random text the model produced\nwith no structure at all")
	assert.Empty(t, s.OverallAssessment)
	assert.Empty(t, s.Strengths)
	assert.Empty(t, s.ImprovementAreas)
	assert.False(t, s.MeetsBar)
}

func TestMeetsBar_Heuristics(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"positivo", "The candidate meets the bar.", true},
		{"negado", "The candidate does not meet the bar.", false},
		{"contraccion", "The candidate doesn't meet the bar.", false},
		{"sin mencion", "Strong performance overall.", false},
		// misfires conocidos de la heurística, documentados a propósito
		{"doble negacion", "We do not think this fails to meet the bar.", true},
		{"fails to meet", "The candidate fails to meet the bar.", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, meetsBar(tc.text))
		})
	}
}
