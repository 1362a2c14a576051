package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/phase"
)

func strPtr(s string) *string { return &s }

func TestCompile_AlwaysThreeSectionsAndThreeReviews(t *testing.T) {
	snapshots := []*model.AssessmentSnapshot{
		model.NewSnapshot(),
		{Phase: phase.Technical},
		{Phase: phase.SystemDesign, TechnicalReport: strPtr("tech answers"),
			TechReview: &model.JudgmentResult{Recommendation: model.StrongHire, Assessment: "great"}},
		{Phase: phase.Failed, TechnicalReport: strPtr("tech answers"),
			FailureRationale: "failed question 2"},
	}

	for _, s := range snapshots {
		out := Compile(s, "Ada Lovelace")
		assert.Equal(t, 1, strings.Count(out, "==== Technical Assessment ===="))
		assert.Equal(t, 1, strings.Count(out, "==== System Design ===="))
		assert.Equal(t, 1, strings.Count(out, "==== Final Interview ===="))
		assert.Equal(t, 1, strings.Count(out, "---- Technical Assessment Review ----"))
		assert.Equal(t, 1, strings.Count(out, "---- System Design Review ----"))
		assert.Equal(t, 1, strings.Count(out, "---- Final Interview Review ----"))
	}
}

func TestCompile_PlaceholdersForMissingData(t *testing.T) {
	out := Compile(model.NewSnapshot(), "Ada Lovelace")
	assert.Equal(t, 3, strings.Count(out, "Phase not completed."))
	assert.Equal(t, 3, strings.Count(out, "No data."))
}

func TestCompile_SectionOrderAndContent(t *testing.T) {
	s := &model.AssessmentSnapshot{
		Phase:              phase.FinalInterview,
		TechnicalReport:    strPtr("Q1: explain indexes\nAnswer: ..."),
		SystemDesignReport: strPtr("Design prompt and answer"),
		TechReview: &model.JudgmentResult{
			Recommendation: model.ProceedWithCaution,
			Assessment:     "adequate depth",
			Strengths:      []string{"clarity"},
			Concerns:       []string{"edge cases"},
		},
		DesignReview: &model.JudgmentResult{
			Recommendation: model.StrongHire,
			Assessment:     "excellent trade-off analysis",
		},
	}

	out := Compile(s, "Grace Hopper")

	techIdx := strings.Index(out, "==== Technical Assessment ====")
	designIdx := strings.Index(out, "==== System Design ====")
	finalIdx := strings.Index(out, "==== Final Interview ====")
	assert.True(t, techIdx < designIdx && designIdx < finalIdx, "fixed stage order")

	assert.Contains(t, out, "explain indexes")
	assert.Contains(t, out, "Recommendation: Proceed With Caution")
	assert.Contains(t, out, "Recommendation: Strong Hire")
	assert.Contains(t, out, "  - clarity")
	assert.Contains(t, out, "  - edge cases")
	// Final interview never ran.
	assert.Contains(t, out, "Phase not completed.")
	assert.Contains(t, out, "Candidate: Grace Hopper")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Ada_Lovelace_gauntlet_report.txt", Filename("Ada Lovelace"))
	assert.Equal(t, "Ada_Lovelace_gauntlet_report.txt", Filename("  Ada   Lovelace "))
	assert.Equal(t, "candidate_gauntlet_report.txt", Filename(""))
}
