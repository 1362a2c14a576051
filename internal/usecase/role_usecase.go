package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/service"
)

// RoleStore is the repository surface the role usecase needs.
type RoleStore interface {
	CreateRole(p *model.RoleProfile) error
	GetRoles() ([]model.RoleProfile, error)
}

// RoleUsecase maintains the role profiles the question generator retrieves
// against.
type RoleUsecase struct {
	roles  RoleStore
	gemini service.GeminiServiceInterface
}

func NewRoleUsecase(roles RoleStore, gemini service.GeminiServiceInterface) *RoleUsecase {
	return &RoleUsecase{roles: roles, gemini: gemini}
}

// CreateRole embeds the description and stores the profile.
func (uc *RoleUsecase) CreateRole(ctx context.Context, title, description string) (*model.RoleProfile, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("role title and description are required")
	}
	emb, err := uc.gemini.GenerateEmbedding(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("embed role description: %w", err)
	}
	profile := &model.RoleProfile{
		Title:       title,
		Description: description,
		Embedding:   pgvector.NewVector(emb),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := uc.roles.CreateRole(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (uc *RoleUsecase) ListRoles() ([]model.RoleProfile, error) {
	return uc.roles.GetRoles()
}
