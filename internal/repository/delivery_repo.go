package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fermentation_logger/internal/models"

	"github.com/google/uuid"
)

type DeliverySQLite struct {
	db *sql.DB
}

func NewDeliverySQLite(db *sql.DB) *DeliverySQLite { return &DeliverySQLite{db: db} }

const insertDeliverySQL = `
		INSERT INTO deliveries (id, occurred_at, outcome, method, url, status_code, location, payload_bytes, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

// Append inserts a delivery record. Empty ID and zero OccurredAt are filled in.
func (r *DeliverySQLite) Append(ctx context.Context, d models.DeliveryRecord) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.OccurredAt.IsZero() {
		d.OccurredAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, insertDeliverySQL,
		d.ID,
		d.OccurredAt.UTC(),
		string(d.Outcome),
		d.Method,
		d.URL,
		d.StatusCode,
		nullable(d.Location),
		d.PayloadBytes,
		d.DurationMs,
		nullable(d.Error),
	)
	if err != nil {
		return fmt.Errorf("append delivery: %w", err)
	}
	return nil
}

// List returns deliveries in [from, to] (inclusive), optionally filtered by outcome, oldest first.
func (r *DeliverySQLite) List(ctx context.Context, from, to time.Time, outcome string) ([]models.DeliveryRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if outcome = strings.ToLower(strings.TrimSpace(outcome)); outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, outcome)
	}

	q := `SELECT id, occurred_at, outcome, method, url, status_code, location, payload_bytes, duration_ms, error FROM deliveries`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]models.DeliveryRecord, 0, 64)
	for rows.Next() {
		var (
			d        models.DeliveryRecord
			outcome  string
			location sql.NullString
			errText  sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.OccurredAt, &outcome, &d.Method, &d.URL,
			&d.StatusCode, &location, &d.PayloadBytes, &d.DurationMs, &errText); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.OccurredAt = d.OccurredAt.UTC()
		d.Outcome = models.DeliveryOutcome(outcome)
		d.Location = location.String
		d.Error = errText.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
