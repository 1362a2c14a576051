package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/gauntlet/internal/model"
)

type fakeGemini struct {
	text    string
	textErr error
	emb     []float32
	embErr  error
	prompts []string
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.textErr
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return f.emb, f.embErr
}

func TestPhaseJudge_ReviewParsesVerdict(t *testing.T) {
	gemini := &fakeGemini{text: `{
		"recommendation": "proceed_with_caution",
		"assessment": "Solid fundamentals, some gaps in depth.",
		"strengths": ["clear writing", "good instincts"],
		"concerns": ["shallow on indexing"]
	}`}
	judge := NewPhaseJudgeService(gemini)

	result, err := judge.Review(context.Background(), "stage report text")
	require.NoError(t, err)
	assert.Equal(t, model.ProceedWithCaution, result.Recommendation)
	assert.True(t, result.Recommendation.Passing())
	assert.Equal(t, []string{"clear writing", "good instincts"}, result.Strengths)
	assert.Equal(t, []string{"shallow on indexing"}, result.Concerns)
}

func TestPhaseJudge_MalformedOutputIsError(t *testing.T) {
	cases := map[string]string{
		"empty output":           "",
		"not json":               "the candidate seems fine to me",
		"unknown recommendation": `{"recommendation": "hire_maybe", "assessment": "ok"}`,
		"missing recommendation": `{"assessment": "ok"}`,
		"missing assessment":     `{"recommendation": "strong_hire"}`,
	}

	for name, output := range cases {
		t.Run(name, func(t *testing.T) {
			judge := NewPhaseJudgeService(&fakeGemini{text: output})
			result, err := judge.Review(context.Background(), "report")
			assert.Error(t, err, "malformed output must never coerce to a pass")
			assert.Nil(t, result)
		})
	}
}

func TestPhaseJudge_ModelErrorPropagates(t *testing.T) {
	judge := NewPhaseJudgeService(&fakeGemini{textErr: errors.New("upstream 503")})
	_, err := judge.Review(context.Background(), "report")
	assert.ErrorContains(t, err, "upstream 503")
}

func TestPhaseJudge_EmptyReportRejected(t *testing.T) {
	gemini := &fakeGemini{}
	judge := NewPhaseJudgeService(gemini)
	_, err := judge.Review(context.Background(), "   ")
	assert.Error(t, err)
	assert.Empty(t, gemini.prompts, "no model call for an empty report")
}

func TestRecommendation_PassingSet(t *testing.T) {
	assert.True(t, model.StrongHire.Passing())
	assert.True(t, model.ProceedWithCaution.Passing())
	assert.False(t, model.DoNotHire.Passing())
}
