// Package report assembles a candidate's full multi-phase transcript into one
// exportable plain-text document.
package report

import (
	"fmt"
	"strings"

	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/phase"
)

const (
	placeholderReport = "Phase not completed."
	placeholderReview = "No data."
)

// stages fixes the section order regardless of how far the candidate got.
var stages = []phase.Phase{phase.Technical, phase.SystemDesign, phase.FinalInterview}

// Compile renders the transcript for a possibly partial snapshot. Every phase
// section and review section always appears; missing data is an explicit
// placeholder, never an omitted header.
func Compile(snapshot *model.AssessmentSnapshot, candidateName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "GAUNTLET ASSESSMENT TRANSCRIPT\n")
	fmt.Fprintf(&b, "Candidate: %s\n", candidateName)
	fmt.Fprintf(&b, "Current phase: %s\n", snapshot.Phase.Label())
	if snapshot.FailureRationale != "" {
		fmt.Fprintf(&b, "Outcome: %s\n", snapshot.FailureRationale)
	}
	b.WriteString("\n")

	for _, stage := range stages {
		fmt.Fprintf(&b, "==== %s ====\n", stage.Label())
		if r := snapshot.ReportFor(stage); r != nil && strings.TrimSpace(*r) != "" {
			b.WriteString(strings.TrimRight(*r, "\n"))
			b.WriteString("\n")
		} else {
			b.WriteString(placeholderReport + "\n")
		}

		fmt.Fprintf(&b, "---- %s Review ----\n", stage.Label())
		if rv := snapshot.ReviewFor(stage); rv != nil {
			b.WriteString(formatReview(rv))
		} else {
			b.WriteString(placeholderReview + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Filename derives the deterministic export name from the candidate's name.
func Filename(candidateName string) string {
	name := strings.TrimSpace(candidateName)
	if name == "" {
		name = "candidate"
	}
	name = strings.Join(strings.Fields(name), "_")
	return name + "_gauntlet_report.txt"
}

func formatReview(r *model.JudgmentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation: %s\n", recommendationLabel(r.Recommendation))
	fmt.Fprintf(&b, "Assessment: %s\n", r.Assessment)
	if len(r.Strengths) > 0 {
		b.WriteString("Strengths:\n")
		for _, s := range r.Strengths {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(r.Concerns) > 0 {
		b.WriteString("Concerns:\n")
		for _, c := range r.Concerns {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	return b.String()
}

func recommendationLabel(r model.Recommendation) string {
	switch r {
	case model.StrongHire:
		return "Strong Hire"
	case model.ProceedWithCaution:
		return "Proceed With Caution"
	case model.DoNotHire:
		return "Do Not Hire"
	}
	return string(r)
}
