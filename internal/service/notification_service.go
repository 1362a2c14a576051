package service

import (
	"context"
	"fmt"
	"strings"
)

// NotificationServiceInterface drafts candidate-facing communications and the
// one-time skill-gap diagnostic requested on a final-interview failure.
type NotificationServiceInterface interface {
	DraftRejection(ctx context.Context, name, role, skills, rationale string) (string, error)
	SkillGapAnalysis(ctx context.Context, name, role, skills string) (string, error)
}

// NotificationService is a thin prompt layer over Gemini. Drafts are stored in
// the candidate's event log; nothing is ever sent from here.
type NotificationService struct {
	gemini GeminiServiceInterface
}

func NewNotificationService(gemini GeminiServiceInterface) *NotificationService {
	return &NotificationService{gemini: gemini}
}

const rejectionPrompt = `Draft a short, respectful rejection email for a recruiting pipeline.

Candidate name: %s
Role applied for: %s
Candidate skills: %s

Internal rationale (do NOT quote verbatim, use it only to inform tone and any constructive feedback):
%s

Return only the email body text, no subject line, no JSON.`

const skillGapPrompt = `A candidate reached the final interview for a role but did not pass. Produce a short skill-gap analysis comparing their profile against the role.

Candidate name: %s
Role: %s
Candidate skills: %s

List the 3-5 most significant gaps and one concrete suggestion for each. Return plain text.`

func (s *NotificationService) DraftRejection(ctx context.Context, name, role, skills, rationale string) (string, error) {
	text, err := s.gemini.GenerateText(ctx, fmt.Sprintf(rejectionPrompt, name, role, skills, rationale))
	if err != nil {
		return "", fmt.Errorf("draft rejection: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("draft rejection: empty draft")
	}
	return text, nil
}

func (s *NotificationService) SkillGapAnalysis(ctx context.Context, name, role, skills string) (string, error) {
	text, err := s.gemini.GenerateText(ctx, fmt.Sprintf(skillGapPrompt, name, role, skills))
	if err != nil {
		return "", fmt.Errorf("skill gap analysis: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("skill gap analysis: empty output")
	}
	return text, nil
}
