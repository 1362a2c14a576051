package model

import (
	"encoding/json"
	"fmt"

	"github.com/hirestack/gauntlet/internal/phase"
)

// Recommendation is the hire-track verdict issued by the phase judge.
type Recommendation string

const (
	StrongHire         Recommendation = "strong_hire"
	ProceedWithCaution Recommendation = "proceed_with_caution"
	DoNotHire          Recommendation = "do_not_hire"
)

// Valid reports whether r is a member of the closed recommendation set.
func (r Recommendation) Valid() bool {
	switch r {
	case StrongHire, ProceedWithCaution, DoNotHire:
		return true
	}
	return false
}

// Passing reports whether r allows the candidate to advance.
func (r Recommendation) Passing() bool {
	return r == StrongHire || r == ProceedWithCaution
}

// JudgmentResult is the phase judge's holistic review of one completed stage.
type JudgmentResult struct {
	Recommendation Recommendation `json:"recommendation"`
	Assessment     string         `json:"assessment"`
	Strengths      []string       `json:"strengths"`
	Concerns       []string       `json:"concerns"`
}

// ProctorResult is the per-question verdict on a technical answer together
// with its integrity evidence.
type ProctorResult struct {
	Evaluation        string `json:"evaluation"`
	Score             int    `json:"score"`
	ProctoringSummary string `json:"proctoring_summary"`
	IsPass            bool   `json:"is_pass"`
}

// AssessmentSnapshot is the whole in-memory state of one candidate's gauntlet
// run. It serializes to the candidate document's GauntletState field and is
// replaced whole on every persisted mutation.
type AssessmentSnapshot struct {
	Phase phase.Phase `json:"phase"`

	TechnicalReport      *string `json:"technical_report"`
	SystemDesignReport   *string `json:"system_design_report"`
	FinalInterviewReport *string `json:"final_interview_report"`

	TechReview   *JudgmentResult `json:"tech_review"`
	DesignReview *JudgmentResult `json:"design_review"`
	FinalReview  *JudgmentResult `json:"final_review"`

	// Technical stage working state, persisted so a reload resumes on the
	// same question.
	Questions        []string `json:"questions,omitempty"`
	QuestionIndex    int      `json:"question_index,omitempty"`
	TechnicalBlocks  []string `json:"technical_blocks,omitempty"`
	DesignPrompt     string   `json:"design_prompt,omitempty"`
	FailureRationale string   `json:"failure_rationale,omitempty"`
}

// NewSnapshot returns the state of a candidate who has not yet started.
func NewSnapshot() *AssessmentSnapshot {
	return &AssessmentSnapshot{Phase: phase.Locked}
}

// DecodeSnapshot parses a stored GauntletState value. An empty value means the
// candidate never started.
func DecodeSnapshot(raw string) (*AssessmentSnapshot, error) {
	if raw == "" || raw == "{}" {
		return NewSnapshot(), nil
	}
	var s AssessmentSnapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode gauntlet state: %w", err)
	}
	if !phase.Valid(s.Phase) {
		return nil, fmt.Errorf("decode gauntlet state: unknown phase %q", s.Phase)
	}
	return &s, nil
}

// Encode serializes the snapshot for the GauntletState field.
func (s *AssessmentSnapshot) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode gauntlet state: %w", err)
	}
	return string(b), nil
}

// Clone returns a deep copy so queued persistence writes see a stable value.
func (s *AssessmentSnapshot) Clone() *AssessmentSnapshot {
	c := *s
	c.Questions = append([]string(nil), s.Questions...)
	c.TechnicalBlocks = append([]string(nil), s.TechnicalBlocks...)
	c.TechnicalReport = cloneStr(s.TechnicalReport)
	c.SystemDesignReport = cloneStr(s.SystemDesignReport)
	c.FinalInterviewReport = cloneStr(s.FinalInterviewReport)
	c.TechReview = cloneReview(s.TechReview)
	c.DesignReview = cloneReview(s.DesignReview)
	c.FinalReview = cloneReview(s.FinalReview)
	return &c
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneReview(r *JudgmentResult) *JudgmentResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Strengths = append([]string(nil), r.Strengths...)
	c.Concerns = append([]string(nil), r.Concerns...)
	return &c
}

// ReportFor returns the stored report for a stage, nil when absent.
func (s *AssessmentSnapshot) ReportFor(p phase.Phase) *string {
	switch p {
	case phase.Technical:
		return s.TechnicalReport
	case phase.SystemDesign:
		return s.SystemDesignReport
	case phase.FinalInterview:
		return s.FinalInterviewReport
	}
	return nil
}

// ReviewFor returns the stored review for a stage, nil when absent.
func (s *AssessmentSnapshot) ReviewFor(p phase.Phase) *JudgmentResult {
	switch p {
	case phase.Technical:
		return s.TechReview
	case phase.SystemDesign:
		return s.DesignReview
	case phase.FinalInterview:
		return s.FinalReview
	}
	return nil
}

// SetReview stores a gate verdict in the slot belonging to the given stage.
func (s *AssessmentSnapshot) SetReview(p phase.Phase, r *JudgmentResult) {
	switch p {
	case phase.Technical:
		s.TechReview = r
	case phase.SystemDesign:
		s.DesignReview = r
	case phase.FinalInterview:
		s.FinalReview = r
	}
}
