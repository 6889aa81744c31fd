package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tokito/genka-kanri/internal/model"
)

// DocumentRepository stores whole JSON documents keyed by a text id.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Get returns gorm.ErrRecordNotFound when no document is stored under id.
func (r *DocumentRepository) Get(ctx context.Context, id string) (*model.DataRecord, error) {
	var row struct {
		ID        string
		Data      datatypes.JSON
		UpdatedAt time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, data, updated_at
		FROM genka_kanri_data
		WHERE id = ?
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.DataRecord{
		ID:        row.ID,
		Data:      row.Data,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Upsert overwrites the document wholesale.
func (r *DocumentRepository) Upsert(ctx context.Context, id string, data []byte, updatedAt time.Time) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO genka_kanri_data (id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, id, datatypes.JSON(data), updatedAt).Error
}
