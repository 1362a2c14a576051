package phase

// Phase is a candidate's position in the gauntlet pipeline.
type Phase string

const (
	Locked              Phase = "locked"
	Technical           Phase = "technical"
	PendingTechReview   Phase = "pending_tech_review"
	SystemDesign        Phase = "system_design"
	PendingDesignReview Phase = "pending_design_review"
	FinalInterview      Phase = "final_interview"
	PendingFinalReview  Phase = "pending_final_review"
	Complete            Phase = "complete"
	Failed              Phase = "failed"
)

// transitions is the closed set of legal moves. Every in-progress phase may
// move to Failed; everything else follows the forward order with a
// pending-review shadow state before each advance.
var transitions = map[Phase][]Phase{
	Locked:              {Technical, Failed},
	Technical:           {PendingTechReview, Failed},
	PendingTechReview:   {SystemDesign, Technical, Failed},
	SystemDesign:        {PendingDesignReview, Failed},
	PendingDesignReview: {FinalInterview, SystemDesign, Failed},
	FinalInterview:      {PendingFinalReview, Failed},
	PendingFinalReview:  {Complete, FinalInterview, Failed},
	Complete:            {},
	Failed:              {},
}

// CanTransition reports whether from -> to is a legal move. The reverse edges
// out of a pending state (back to its own stage) exist solely for the
// judge-error rollback path.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the forward successor of p, or Failed if p has none.
func Next(p Phase) Phase {
	switch p {
	case Locked:
		return Technical
	case Technical:
		return PendingTechReview
	case PendingTechReview:
		return SystemDesign
	case SystemDesign:
		return PendingDesignReview
	case PendingDesignReview:
		return FinalInterview
	case FinalInterview:
		return PendingFinalReview
	case PendingFinalReview:
		return Complete
	}
	return Failed
}

// PendingFor returns the pending-review shadow state entered when the given
// stage is submitted, or Failed if p is not a stage.
func PendingFor(p Phase) Phase {
	switch p {
	case Technical:
		return PendingTechReview
	case SystemDesign:
		return PendingDesignReview
	case FinalInterview:
		return PendingFinalReview
	}
	return Failed
}

// StageFor returns the stage a pending state shadows, or Failed if p is not
// a pending state. It is the rollback target after a judge error.
func StageFor(p Phase) Phase {
	switch p {
	case PendingTechReview:
		return Technical
	case PendingDesignReview:
		return SystemDesign
	case PendingFinalReview:
		return FinalInterview
	}
	return Failed
}

// IsTerminal reports whether p admits no further transitions.
func IsTerminal(p Phase) bool {
	return p == Complete || p == Failed
}

// IsStage reports whether p is an active assessment stage accepting answers.
func IsStage(p Phase) bool {
	return p == Technical || p == SystemDesign || p == FinalInterview
}

// IsPending reports whether p is a pending-review shadow state.
func IsPending(p Phase) bool {
	return p == PendingTechReview || p == PendingDesignReview || p == PendingFinalReview
}

// Valid reports whether p is a member of the closed phase set.
func Valid(p Phase) bool {
	_, ok := transitions[p]
	return ok
}

// Label returns the human-readable name used in reports and log entries.
func (p Phase) Label() string {
	switch p {
	case Locked:
		return "Locked"
	case Technical:
		return "Technical Assessment"
	case PendingTechReview:
		return "Pending Technical Review"
	case SystemDesign:
		return "System Design"
	case PendingDesignReview:
		return "Pending Design Review"
	case FinalInterview:
		return "Final Interview"
	case PendingFinalReview:
		return "Pending Final Review"
	case Complete:
		return "Complete"
	case Failed:
		return "Failed"
	}
	return string(p)
}
