package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeProctorResult_ScoreThreshold(t *testing.T) {
	cases := []struct {
		score    int
		wantPass bool
	}{
		{0, false},
		{69, false},
		{70, true},
		{85, true},
		{100, true},
	}

	for _, tc := range cases {
		out := proctorJSON(tc.score, false)
		result, err := finalizeProctorResult(out, "None")
		require.NoError(t, err)
		assert.Equal(t, tc.score, result.Score)
		assert.Equal(t, tc.wantPass, result.IsPass, "score %d", tc.score)
	}
}

func TestFinalizeProctorResult_SecondVoiceOverride(t *testing.T) {
	// A flagged transcript zeroes the score no matter how good the answer was.
	for _, score := range []int{0, 70, 100} {
		result, err := finalizeProctorResult(proctorJSON(score, true), "someone whispering answers")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score, "model score %d", score)
		assert.False(t, result.IsPass)
		assert.Contains(t, result.ProctoringSummary, "Second voice detected")
	}
}

func TestFinalizeProctorResult_NoOverrideWithoutTranscript(t *testing.T) {
	// Capture-unsupported sessions send the "None" marker; the override must
	// not fire even if the model hallucinates a detection.
	result, err := finalizeProctorResult(proctorJSON(90, true), "None")
	require.NoError(t, err)
	assert.Equal(t, 90, result.Score)
	assert.True(t, result.IsPass)
}

func TestFinalizeProctorResult_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"no score":         `{"evaluation": "good answer"}`,
		"score over range": `{"score": 140, "evaluation": "x"}`,
		"negative score":   `{"score": -5, "evaluation": "x"}`,
		"no evaluation":    `{"score": 80}`,
	}
	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := finalizeProctorResult(out, "None")
			assert.Error(t, err)
		})
	}
}

func proctorJSON(score int, secondVoice bool) string {
	return fmt.Sprintf(
		`{"score": %d, "evaluation": "graded answer", "proctoring_summary": "one tab switch", "second_voice_detected": %t}`,
		score, secondVoice)
}
