package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hirestack/gauntlet/internal/model"
)

// PhaseJudgeInterface is the holistic reviewer run after every stage. It is
// invoked identically for all three gates.
type PhaseJudgeInterface interface {
	Review(ctx context.Context, report string) (*model.JudgmentResult, error)
}

// PhaseJudgeService asks Gemini for a hire-track recommendation over one
// completed stage report.
type PhaseJudgeService struct {
	gemini GeminiServiceInterface
}

func NewPhaseJudgeService(gemini GeminiServiceInterface) *PhaseJudgeService {
	return &PhaseJudgeService{gemini: gemini}
}

const phaseJudgePrompt = `You are a senior hiring-committee reviewer. You are given the full report of one completed assessment stage for a candidate. Review it holistically and issue a hire-track recommendation.

Return your answer STRICTLY in JSON format with this schema:
{
  "recommendation": "<one of: strong_hire, proceed_with_caution, do_not_hire>",
  "assessment": "<2-4 sentence holistic assessment of this stage>",
  "strengths": ["<strength>", ...],
  "concerns": ["<concern>", ...]
}

Stage report:
%s
`

func (s *PhaseJudgeService) Review(ctx context.Context, report string) (*model.JudgmentResult, error) {
	if strings.TrimSpace(report) == "" {
		return nil, fmt.Errorf("phase judge: empty stage report")
	}

	text, err := s.gemini.GenerateText(ctx, fmt.Sprintf(phaseJudgePrompt, report))
	if err != nil {
		return nil, fmt.Errorf("phase judge: %w", err)
	}

	return parseJudgment(text)
}

// parseJudgment extracts a JudgmentResult from raw model output. Anything
// malformed is an error; a verdict is never defaulted.
func parseJudgment(text string) (*model.JudgmentResult, error) {
	rec := model.Recommendation(strings.TrimSpace(gjson.Get(text, "recommendation").String()))
	if !rec.Valid() {
		return nil, fmt.Errorf("phase judge: missing or unknown recommendation in output: %q", rec)
	}

	assessment := gjson.Get(text, "assessment").String()
	if strings.TrimSpace(assessment) == "" {
		return nil, fmt.Errorf("phase judge: empty assessment in output")
	}

	result := &model.JudgmentResult{
		Recommendation: rec,
		Assessment:     assessment,
	}
	for _, v := range gjson.Get(text, "strengths").Array() {
		result.Strengths = append(result.Strengths, v.String())
	}
	for _, v := range gjson.Get(text, "concerns").Array() {
		result.Concerns = append(result.Concerns, v.String())
	}
	return result, nil
}
