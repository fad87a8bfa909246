package repository

import (
	"context"
	"database/sql"
	"time"

	"fermentation_logger/internal/models"
)

// ReadingRepo persists the latest raw readings (single row).
type ReadingRepo interface {
	Save(ctx context.Context, s models.ReadingState) error
	Load(ctx context.Context) (models.ReadingState, error)
}

// DeliveryRepo is the append-only history of send attempts.
type DeliveryRepo interface {
	Append(ctx context.Context, d models.DeliveryRecord) error
	List(ctx context.Context, from, to time.Time, outcome string) ([]models.DeliveryRecord, error)
}

type Repository struct {
	ReadingRepo  ReadingRepo
	DeliveryRepo DeliveryRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ReadingRepo:  NewReadingSQLite(db),
		DeliveryRepo: NewDeliverySQLite(db),
	}
}
