package postgresadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"timecapsule/contexts/capsules/public-capsule/domain/entities"
	domainerrors "timecapsule/contexts/capsules/public-capsule/domain/errors"
	"timecapsule/contexts/capsules/public-capsule/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables owned by this module for schema sync.
func Models() []any {
	return []any{&publicCapsuleModel{}}
}

func (r *Repository) ListOpened(ctx context.Context, filter ports.OpenedFilter) ([]entities.PublicCapsule, error) {
	tx := r.db.WithContext(ctx).
		Model(&publicCapsuleModel{}).
		Where("opens_at <= ?", filter.OpenedBy.UTC())
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}

	var rows []publicCapsuleModel
	if err := tx.Order("opens_at DESC").Order("capsule_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.PublicCapsule, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetPublicCapsule(ctx context.Context, capsuleID string) (entities.PublicCapsule, error) {
	var row publicCapsuleModel
	err := r.db.WithContext(ctx).
		Where("capsule_id = ?", strings.TrimSpace(capsuleID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PublicCapsule{}, domainerrors.ErrCapsuleNotFound
		}
		return entities.PublicCapsule{}, err
	}
	return row.toEntity(), nil
}

type publicCapsuleModel struct {
	CapsuleID  string    `gorm:"column:capsule_id;primaryKey"`
	Title      string    `gorm:"column:title;size:200"`
	Message    string    `gorm:"column:message;type:text"`
	AuthorName string    `gorm:"column:author_name;size:120"`
	OpensAt    time.Time `gorm:"column:opens_at;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (publicCapsuleModel) TableName() string {
	return "public_capsules"
}

func (m publicCapsuleModel) toEntity() entities.PublicCapsule {
	return entities.PublicCapsule{
		CapsuleID:  m.CapsuleID,
		Title:      m.Title,
		Message:    m.Message,
		AuthorName: m.AuthorName,
		OpensAt:    m.OpensAt.UTC(),
		CreatedAt:  m.CreatedAt.UTC(),
	}
}
