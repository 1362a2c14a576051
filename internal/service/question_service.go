package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/tidwall/gjson"

	"github.com/hirestack/gauntlet/internal/model"
)

// RoleSearcher retrieves the role profiles nearest to an embedding.
type RoleSearcher interface {
	SearchRoles(embedding pgvector.Vector, topK int) ([]model.RoleProfile, error)
}

// QuestionServiceInterface produces the technical question set and the
// system-design prompt for a stage start.
type QuestionServiceInterface interface {
	TechnicalQuestions(ctx context.Context, role, narrative string) ([]string, error)
	DesignPrompt(ctx context.Context, role, narrative string) (string, error)
}

// QuestionService generates stage content with Gemini, grounding each prompt
// in the role profiles retrieved for the candidate's narrative.
type QuestionService struct {
	gemini GeminiServiceInterface
	roles  RoleSearcher
}

func NewQuestionService(gemini GeminiServiceInterface, roles RoleSearcher) *QuestionService {
	return &QuestionService{gemini: gemini, roles: roles}
}

// technicalQuestionCount is the fixed size of a technical question set.
const technicalQuestionCount = 3

const technicalQuestionsPrompt = `You are preparing a timed technical assessment for a candidate applying as %s.

Candidate background:
%s

Relevant role requirements:
%s

Write exactly %d challenging technical questions targeted at this role and this candidate's claimed experience. Each question must be answerable in written form in 10-15 minutes.

Return your answer STRICTLY in JSON format:
{"questions": ["<question 1>", "<question 2>", "<question 3>"]}
`

const designPromptTemplate = `You are preparing a system-design exercise for a candidate applying as %s.

Candidate background:
%s

Relevant role requirements:
%s

Write one open-ended system-design prompt appropriate for this role. It should require the candidate to discuss architecture, trade-offs, data storage, and failure modes.

Return your answer STRICTLY in JSON format:
{"prompt": "<the design prompt>"}
`

func (s *QuestionService) TechnicalQuestions(ctx context.Context, role, narrative string) ([]string, error) {
	roleContext, err := s.roleContext(ctx, role, narrative)
	if err != nil {
		return nil, err
	}

	text, err := s.gemini.GenerateText(ctx, fmt.Sprintf(
		technicalQuestionsPrompt, role, narrative, roleContext, technicalQuestionCount))
	if err != nil {
		return nil, fmt.Errorf("generate technical questions: %w", err)
	}

	var questions []string
	for _, v := range gjson.Get(text, "questions").Array() {
		if q := strings.TrimSpace(v.String()); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("generate technical questions: no questions in output")
	}
	return questions, nil
}

func (s *QuestionService) DesignPrompt(ctx context.Context, role, narrative string) (string, error) {
	roleContext, err := s.roleContext(ctx, role, narrative)
	if err != nil {
		return "", err
	}

	text, err := s.gemini.GenerateText(ctx, fmt.Sprintf(
		designPromptTemplate, role, narrative, roleContext))
	if err != nil {
		return "", fmt.Errorf("generate design prompt: %w", err)
	}

	prompt := strings.TrimSpace(gjson.Get(text, "prompt").String())
	if prompt == "" {
		return "", fmt.Errorf("generate design prompt: empty prompt in output")
	}
	return prompt, nil
}

// roleContext embeds the candidate's narrative and retrieves the nearest role
// profiles as prompt context. Retrieval failure degrades to the bare role
// title rather than blocking the stage.
func (s *QuestionService) roleContext(ctx context.Context, role, narrative string) (string, error) {
	emb, err := s.gemini.GenerateEmbedding(ctx, role+"\n"+narrative)
	if err != nil {
		return "", fmt.Errorf("embed narrative: %w", err)
	}

	profiles, err := s.roles.SearchRoles(pgvector.NewVector(emb), 3)
	if err != nil || len(profiles) == 0 {
		return role, nil
	}

	var b strings.Builder
	for i, p := range profiles {
		fmt.Fprintf(&b, "Role %d: %s\n%s\n\n", i+1, p.Title, p.Description)
	}
	return b.String(), nil
}
