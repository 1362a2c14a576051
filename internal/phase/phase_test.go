package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardOrder(t *testing.T) {
	forward := []Phase{Locked, Technical, PendingTechReview, SystemDesign,
		PendingDesignReview, FinalInterview, PendingFinalReview, Complete}

	for i := 0; i < len(forward)-1; i++ {
		assert.True(t, CanTransition(forward[i], forward[i+1]),
			"expected %s -> %s to be legal", forward[i], forward[i+1])
	}

	// No skipping stages.
	assert.False(t, CanTransition(Technical, Complete))
	assert.False(t, CanTransition(Technical, SystemDesign))
	assert.False(t, CanTransition(Locked, SystemDesign))
	assert.False(t, CanTransition(PendingTechReview, FinalInterview))

	// No moving backwards except the pending rollback edges.
	assert.False(t, CanTransition(SystemDesign, Technical))
	assert.False(t, CanTransition(FinalInterview, SystemDesign))
	assert.True(t, CanTransition(PendingTechReview, Technical))
	assert.True(t, CanTransition(PendingDesignReview, SystemDesign))
	assert.True(t, CanTransition(PendingFinalReview, FinalInterview))
}

func TestCanTransition_FailedReachableFromInProgress(t *testing.T) {
	for _, p := range []Phase{Locked, Technical, PendingTechReview, SystemDesign,
		PendingDesignReview, FinalInterview, PendingFinalReview} {
		assert.True(t, CanTransition(p, Failed), "expected %s -> failed to be legal", p)
	}
}

func TestTerminalStatesAdmitNothing(t *testing.T) {
	for _, from := range []Phase{Complete, Failed} {
		for to := range transitions {
			assert.False(t, CanTransition(from, to),
				"terminal %s must not transition to %s", from, to)
		}
	}
	assert.True(t, IsTerminal(Complete))
	assert.True(t, IsTerminal(Failed))
	assert.False(t, IsTerminal(Technical))
}

func TestPendingStageMapping(t *testing.T) {
	assert.Equal(t, PendingTechReview, PendingFor(Technical))
	assert.Equal(t, PendingDesignReview, PendingFor(SystemDesign))
	assert.Equal(t, PendingFinalReview, PendingFor(FinalInterview))

	assert.Equal(t, Technical, StageFor(PendingTechReview))
	assert.Equal(t, SystemDesign, StageFor(PendingDesignReview))
	assert.Equal(t, FinalInterview, StageFor(PendingFinalReview))

	// Round trip over every stage.
	for _, p := range []Phase{Technical, SystemDesign, FinalInterview} {
		assert.Equal(t, p, StageFor(PendingFor(p)))
	}
}

func TestNextWalksTheFullPipeline(t *testing.T) {
	p := Locked
	seen := []Phase{}
	for !IsTerminal(p) {
		p = Next(p)
		seen = append(seen, p)
	}
	assert.Equal(t, []Phase{Technical, PendingTechReview, SystemDesign,
		PendingDesignReview, FinalInterview, PendingFinalReview, Complete}, seen)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Technical))
	assert.True(t, Valid(Failed))
	assert.False(t, Valid(Phase("onboarding")))
	assert.False(t, Valid(Phase("")))
}
