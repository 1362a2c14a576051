package repository

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/hirestack/gauntlet/internal/model"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db}
}

// SearchRoles returns the role profiles nearest to the embedding, closest
// first.
func (r *RoleRepository) SearchRoles(embedding pgvector.Vector, topK int) ([]model.RoleProfile, error) {
	var profiles []model.RoleProfile
	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM role_profiles
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&profiles).Error
	return profiles, err
}

func (r *RoleRepository) CreateRole(p *model.RoleProfile) error {
	return r.db.Create(p).Error
}

func (r *RoleRepository) UpdateRole(p *model.RoleProfile) error {
	return r.db.Save(p).Error
}

func (r *RoleRepository) GetRoles() ([]model.RoleProfile, error) {
	var profiles []model.RoleProfile
	err := r.db.Find(&profiles).Error
	return profiles, err
}
