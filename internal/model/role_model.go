package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// RoleProfile is an open role description with its embedding. Question
// generation retrieves the profiles nearest to a candidate's narrative and
// injects them as prompt context.
type RoleProfile struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string          `json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Embedding   pgvector.Vector `gorm:"type:vector(3072)" json:"embedding"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (r *RoleProfile) TableName() string {
	return "role_profiles"
}
