package model

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is the durable document for one applicant. GauntletState holds the
// serialized AssessmentSnapshot and is replaced whole on every write; the event
// log lives in its own append-only table.
type Candidate struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name              string     `gorm:"type:varchar(255)" json:"name"`
	Email             string     `gorm:"type:varchar(255)" json:"email"`
	Role              string     `gorm:"type:varchar(255)" json:"role"`
	Narrative         string     `gorm:"type:text" json:"narrative"`
	Skills            string     `gorm:"type:text" json:"skills"` // comma-joined
	GauntletState     string     `gorm:"type:jsonb" json:"gauntlet_state"`
	GauntletStartDate *time.Time `json:"gauntlet_start_date"`
	Archived          bool       `json:"archived"`
	CommunicationSent bool       `json:"communication_sent"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EventLogEntry is one row of a candidate's append-only activity log. Rows are
// only ever inserted.
type EventLogEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;index" json:"candidate_id"`
	Kind        string    `gorm:"type:varchar(50)" json:"kind"` // e.g. "status_change", "ai_action", "communication"
	Message     string    `gorm:"type:text" json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	LogKindStatusChange  = "status_change"
	LogKindAIAction      = "ai_action"
	LogKindCommunication = "communication"
)
