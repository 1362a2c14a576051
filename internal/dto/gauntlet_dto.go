package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hirestack/gauntlet/internal/deadline"
	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/phase"
)

type OpenSessionRequest struct {
	CandidateID string `json:"candidate_id"`
	Secret      string `json:"secret"`
}

type StartPhaseRequest struct {
	Phase string `json:"phase"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

type EvidenceRequest struct {
	// Kind is one of "hidden", "transcript", "permission".
	Kind       string `json:"kind"`
	Transcript string `json:"transcript,omitempty"`
	Blocked    bool   `json:"blocked,omitempty"`
}

type CreateCandidateRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Narrative string `json:"narrative"`
	Skills    string `json:"skills"`
}

// GauntletStatusDTO is the session view of a candidate's run. Reviews and the
// raw stage working state stay server-side; the client sees the phase, the
// open question, and the deadline.
type GauntletStatusDTO struct {
	CandidateID   uuid.UUID       `json:"candidate_id"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	Phase         phase.Phase     `json:"phase"`
	PhaseLabel    string          `json:"phase_label"`
	Question      string          `json:"question,omitempty"`
	QuestionIndex int             `json:"question_index"`
	QuestionTotal int             `json:"question_total"`
	DesignPrompt  string          `json:"design_prompt,omitempty"`
	Deadline      deadline.Status `json:"deadline"`
	Archived      bool            `json:"archived"`
}

func NewGauntletStatusDTO(c *model.Candidate, s *model.AssessmentSnapshot, d deadline.Status) GauntletStatusDTO {
	out := GauntletStatusDTO{
		CandidateID:   c.ID,
		Name:          c.Name,
		Role:          c.Role,
		Phase:         s.Phase,
		PhaseLabel:    s.Phase.Label(),
		QuestionIndex: s.QuestionIndex,
		QuestionTotal: len(s.Questions),
		Deadline:      d,
		Archived:      c.Archived,
	}
	if s.Phase == phase.Technical && s.QuestionIndex < len(s.Questions) {
		out.Question = s.Questions[s.QuestionIndex]
	}
	if s.Phase == phase.SystemDesign {
		out.DesignPrompt = s.DesignPrompt
	}
	return out
}

type CandidateDTO struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	Skills            string     `json:"skills"`
	Phase             string     `json:"phase"`
	GauntletStartDate *time.Time `json:"gauntlet_start_date"`
	Archived          bool       `json:"archived"`
	CommunicationSent bool       `json:"communication_sent"`
	CreatedAt         time.Time  `json:"created_at"`
}
