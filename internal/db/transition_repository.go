package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransitionRow represents a row from zone_transitions.
type TransitionRow struct {
	ID      uuid.UUID
	Zone    string
	Subject string
	Inside  bool
	X, Y, Z float64
	At      time.Time
}

// TransitionRepository journals zone enter/exit events.
type TransitionRepository struct {
	pool *pgxpool.Pool
}

// NewTransitionRepository creates a new TransitionRepository.
func NewTransitionRepository(pool *pgxpool.Pool) *TransitionRepository {
	return &TransitionRepository{pool: pool}
}

// Record inserts a transition. A zero ID or time is filled in and returned.
func (r *TransitionRepository) Record(ctx context.Context, row TransitionRow) (TransitionRow, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.At.IsZero() {
		row.At = time.Now()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO zone_transitions (id, zone_name, subject, inside, pos_x, pos_y, pos_z, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID, row.Zone, row.Subject, row.Inside, row.X, row.Y, row.Z, row.At)
	if err != nil {
		return row, fmt.Errorf("insert zone transition %s/%s: %w", row.Zone, row.Subject, err)
	}
	return row, nil
}

// ListByZone returns the latest transitions of a zone, newest first.
func (r *TransitionRepository) ListByZone(ctx context.Context, zoneName string, limit int) ([]TransitionRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, zone_name, subject, inside, pos_x, pos_y, pos_z, occurred_at
		 FROM zone_transitions
		 WHERE zone_name = $1
		 ORDER BY occurred_at DESC
		 LIMIT $2`, zoneName, limit)
	if err != nil {
		return nil, fmt.Errorf("query zone_transitions for %s: %w", zoneName, err)
	}
	defer rows.Close()

	var result []TransitionRow
	for rows.Next() {
		var row TransitionRow
		if err := rows.Scan(&row.ID, &row.Zone, &row.Subject, &row.Inside, &row.X, &row.Y, &row.Z, &row.At); err != nil {
			return nil, fmt.Errorf("scan zone_transitions: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// LastState returns whether subject was last seen inside zone.
// found is false when no transition was recorded.
func (r *TransitionRepository) LastState(ctx context.Context, zoneName, subject string) (inside, found bool, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT inside FROM zone_transitions
		 WHERE zone_name = $1 AND subject = $2
		 ORDER BY occurred_at DESC
		 LIMIT 1`, zoneName, subject).Scan(&inside)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query last state %s/%s: %w", zoneName, subject, err)
	}
	return inside, true, nil
}

// DeleteBefore removes transitions older than cutoff and returns how many were deleted.
func (r *TransitionRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM zone_transitions WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete zone_transitions before %s: %w", cutoff, err)
	}
	return tag.RowsAffected(), nil
}
