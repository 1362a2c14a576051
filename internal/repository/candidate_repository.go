package repository

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hirestack/gauntlet/internal/model"
)

// ErrCandidateGone marks a read of a candidate record deleted by an
// administrator while a session still references it.
var ErrCandidateGone = errors.New("candidate record no longer exists")

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) CreateCandidate(c *model.Candidate) error {
	return r.db.Create(c).Error
}

func (r *CandidateRepository) FindCandidateByID(id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateGone
	}
	return &c, err
}

func (r *CandidateRepository) DeleteCandidate(id uuid.UUID) error {
	return r.db.Delete(&model.Candidate{}, "id = ?", id).Error
}

// SaveSnapshot replaces the candidate's whole gauntlet state field. Replaying
// the same snapshot is a no-op at the data level; a write against a deleted
// candidate is silently benign.
func (r *CandidateRepository) SaveSnapshot(id uuid.UUID, state string, start *time.Time) error {
	updates := map[string]any{
		"gauntlet_state": state,
		"updated_at":     time.Now(),
	}
	if start != nil {
		updates["gauntlet_start_date"] = *start
	}
	tx := r.db.Model(&model.Candidate{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		log.Printf("snapshot write for absent candidate %s ignored", id)
	}
	return nil
}

// AppendLog inserts one event-log row. The log table is append-only; rows are
// never updated or removed.
func (r *CandidateRepository) AppendLog(candidateID uuid.UUID, kind, message string) error {
	entry := model.EventLogEntry{
		CandidateID: candidateID,
		Kind:        kind,
		Message:     message,
		CreatedAt:   time.Now(),
	}
	return r.db.Create(&entry).Error
}

func (r *CandidateRepository) ListLog(candidateID uuid.UUID) ([]model.EventLogEntry, error) {
	var entries []model.EventLogEntry
	err := r.db.Where("candidate_id = ?", candidateID).Order("created_at asc").Find(&entries).Error
	return entries, err
}

// SetArchived flips the archive flag; absent candidates are benign, matching
// SaveSnapshot.
func (r *CandidateRepository) SetArchived(id uuid.UUID, archived bool) error {
	tx := r.db.Model(&model.Candidate{}).Where("id = ?", id).Update("archived", archived)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		log.Printf("archive flag for absent candidate %s ignored", id)
	}
	return nil
}

func (r *CandidateRepository) SetCommunicationSent(id uuid.UUID, sent bool) error {
	tx := r.db.Model(&model.Candidate{}).Where("id = ?", id).Update("communication_sent", sent)
	if tx.Error != nil {
		return tx.Error
	}
	return nil
}
