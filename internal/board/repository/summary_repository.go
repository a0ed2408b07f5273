package repository

import (
	"errors"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryRepository caches AI-generated thread summaries per board email.
type SummaryRepository interface {
	GetSummary(boardID, providerMessageID string) (*boarddomain.ThreadSummary, error)
	SaveSummary(summary *boarddomain.ThreadSummary) error
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) GetSummary(boardID, providerMessageID string) (*boarddomain.ThreadSummary, error) {
	var summary boarddomain.ThreadSummary
	err := r.db.Where("board_id = ? AND provider_message_id = ?", boardID, providerMessageID).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) SaveSummary(summary *boarddomain.ThreadSummary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	summary.CreatedAt = time.Now()

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "board_id"}, {Name: "provider_message_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"summary": summary.Summary}),
	}).Create(summary).Error
}
