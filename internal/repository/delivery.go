package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

type deliveryRepo struct{}

// NewDeliveryRepository returns a pgx-backed DeliveryRepository.
func NewDeliveryRepository() DeliveryRepository {
	return &deliveryRepo{}
}

func (r *deliveryRepo) Append(ctx context.Context, db DBTX, d domain.Delivery) error {
	raw, err := json.Marshal(d.Event)
	if err != nil {
		return fmt.Errorf("marshal delivery event: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO deliveries (match_id, seq, innings, over_display, event_type, event, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.MatchID, d.Seq, d.Innings, d.Over, string(d.Event.Type), raw, d.AppliedAt)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

func (r *deliveryRepo) NextSeq(ctx context.Context, db DBTX, matchID uuid.UUID) (int64, error) {
	var last int64
	err := db.QueryRow(ctx, `SELECT COALESCE(MAX(seq), 0) FROM deliveries WHERE match_id = $1`, matchID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("next delivery seq: %w", err)
	}
	return last + 1, nil
}

func (r *deliveryRepo) ListByMatch(ctx context.Context, db DBTX, matchID uuid.UUID) ([]domain.Delivery, error) {
	rows, err := db.Query(ctx, `
		SELECT match_id, seq, innings, over_display, event, applied_at
		FROM deliveries
		WHERE match_id = $1
		ORDER BY seq ASC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Delivery, 0)
	for rows.Next() {
		var d domain.Delivery
		var raw []byte
		if err := rows.Scan(&d.MatchID, &d.Seq, &d.Innings, &d.Over, &raw, &d.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if err := json.Unmarshal(raw, &d.Event); err != nil {
			return nil, fmt.Errorf("decode delivery %d: %w", d.Seq, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *deliveryRepo) DeleteByMatch(ctx context.Context, db DBTX, matchID uuid.UUID) error {
	if _, err := db.Exec(ctx, `DELETE FROM deliveries WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete deliveries: %w", err)
	}
	return nil
}
