package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/gauntlet/internal/model"
)

type fakeRoleSearcher struct {
	profiles []model.RoleProfile
	err      error
}

func (f *fakeRoleSearcher) SearchRoles(embedding pgvector.Vector, topK int) ([]model.RoleProfile, error) {
	return f.profiles, f.err
}

func TestQuestionService_TechnicalQuestions(t *testing.T) {
	gemini := &fakeGemini{
		emb:  []float32{0.1, 0.2},
		text: `{"questions": ["Explain B-tree vs LSM storage.", "Design a rate limiter.", "  ", "Debug this deadlock."]}`,
	}
	roles := &fakeRoleSearcher{profiles: []model.RoleProfile{
		{Title: "Backend Engineer", Description: "Go, Postgres, queues"},
	}}
	svc := NewQuestionService(gemini, roles)

	questions, err := svc.TechnicalQuestions(context.Background(), "Backend Engineer", "5 years of Go")
	require.NoError(t, err)
	assert.Len(t, questions, 3, "blank entries dropped")
	assert.Contains(t, gemini.prompts[0], "Backend Engineer")
	assert.Contains(t, gemini.prompts[0], "Go, Postgres, queues", "retrieved role context injected")
}

func TestQuestionService_RetrievalFailureDegrades(t *testing.T) {
	gemini := &fakeGemini{emb: []float32{0.5}, text: `{"questions": ["q1"]}`}
	svc := NewQuestionService(gemini, &fakeRoleSearcher{err: errors.New("vector index offline")})

	questions, err := svc.TechnicalQuestions(context.Background(), "SRE", "ops background")
	require.NoError(t, err, "retrieval failure must not block the stage")
	assert.Equal(t, []string{"q1"}, questions)
}

func TestQuestionService_EmptyOutputIsError(t *testing.T) {
	gemini := &fakeGemini{emb: []float32{0.5}, text: `{"questions": []}`}
	svc := NewQuestionService(gemini, &fakeRoleSearcher{})
	_, err := svc.TechnicalQuestions(context.Background(), "SRE", "ops")
	assert.Error(t, err)
}

func TestQuestionService_DesignPrompt(t *testing.T) {
	gemini := &fakeGemini{emb: []float32{0.5}, text: `{"prompt": "Design a multi-region feed."}`}
	svc := NewQuestionService(gemini, &fakeRoleSearcher{})

	prompt, err := svc.DesignPrompt(context.Background(), "Staff Engineer", "distributed systems")
	require.NoError(t, err)
	assert.Equal(t, "Design a multi-region feed.", prompt)

	gemini.text = `{}`
	_, err = svc.DesignPrompt(context.Background(), "Staff Engineer", "distributed systems")
	assert.Error(t, err)
}
