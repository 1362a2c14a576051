package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/hirestack/gauntlet/internal/config"
	"github.com/hirestack/gauntlet/internal/model"
)

// ProctorInput bundles one technical answer with its integrity evidence.
type ProctorInput struct {
	Question          string
	Answer            string
	VisibilityEvents  []string
	AmbientTranscript string
}

// ProctorJudgeInterface scores one technical answer together with the
// proctoring evidence collected during the attempt.
type ProctorJudgeInterface interface {
	Evaluate(ctx context.Context, in ProctorInput) (*model.ProctorResult, error)
}

// ProctorJudgeService runs the per-question judgment through the OpenRouter
// chat-completions API.
type ProctorJudgeService struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

func NewProctorJudgeService() *ProctorJudgeService {
	cfg := config.LoadOpenRouterConfig()
	return &ProctorJudgeService{
		client:  resty.New(),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
	}
}

const proctorJudgePrompt = `You are a technical interviewer grading one written answer, with proctoring evidence from the attempt.

Grade the answer on correctness and depth. Weigh the proctoring evidence as follows:
- Tab-switch events are ADVISORY ONLY. They are never an automatic failure; apply at most a minor deduction if they are frequent or suspicious in context.
- Examine the ambient audio transcript. If it contains evidence of a SECOND human voice (someone other than the candidate speaking, e.g. being fed answers), set "second_voice_detected" to true.

Return your answer STRICTLY in JSON format with this schema:
{
  "score": <integer 0-100, quality of the written answer>,
  "evaluation": "<free-text evaluation of the answer>",
  "proctoring_summary": "<1-2 sentence summary of the integrity evidence>",
  "second_voice_detected": <true|false>
}

Question:
%s

Candidate's answer:
%s

Tab-visibility events:
%s

Ambient audio transcript:
%s
`

// passThreshold is the minimum answer score that passes a technical question.
const passThreshold = 70

func (s *ProctorJudgeService) Evaluate(ctx context.Context, in ProctorInput) (*model.ProctorResult, error) {
	events := "None"
	if len(in.VisibilityEvents) > 0 {
		events = strings.Join(in.VisibilityEvents, "\n")
	}
	transcript := in.AmbientTranscript
	if strings.TrimSpace(transcript) == "" {
		transcript = "None"
	}

	prompt := fmt.Sprintf(proctorJudgePrompt, in.Question, in.Answer, events, transcript)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an AI proctor grading timed technical assessments."},
				{"role": "user", "content": prompt},
			},
		}).
		Post(s.baseURL + "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("proctor judge: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("proctor judge: status %d: %s", resp.StatusCode(), resp.String())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return nil, fmt.Errorf("proctor judge: no content in response")
	}

	return finalizeProctorResult(text, transcript)
}

// finalizeProctorResult parses the model output and applies the deterministic
// second-voice override: a flagged transcript forces score 0 and a fail,
// regardless of answer quality. The override never fires on the "None" marker.
func finalizeProctorResult(text, transcript string) (*model.ProctorResult, error) {
	scoreField := gjson.Get(text, "score")
	if !scoreField.Exists() {
		return nil, fmt.Errorf("proctor judge: missing score in output")
	}
	score := int(scoreField.Int())
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("proctor judge: score %d out of range", score)
	}
	evaluation := gjson.Get(text, "evaluation").String()
	if strings.TrimSpace(evaluation) == "" {
		return nil, fmt.Errorf("proctor judge: empty evaluation in output")
	}

	result := &model.ProctorResult{
		Evaluation:        evaluation,
		Score:             score,
		ProctoringSummary: gjson.Get(text, "proctoring_summary").String(),
		IsPass:            score >= passThreshold,
	}

	if transcript != "None" && gjson.Get(text, "second_voice_detected").Bool() {
		result.Score = 0
		result.IsPass = false
		result.ProctoringSummary = "Second voice detected in ambient audio. " + result.ProctoringSummary
	}

	return result, nil
}
