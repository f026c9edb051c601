package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"memex/internal/domain"
)

type offlineRow struct {
	ID        int64  `db:"id"`
	Action    string `db:"action"`
	TargetID  string `db:"target_id"`
	Payload   string `db:"payload"`
	Status    string `db:"status"`
	Attempts  int    `db:"attempts"`
	LastError string `db:"last_error"`
	CreatedAt int64  `db:"created_at"`
}

// OfflineQueue persists remote mutations that have not reached the remote
// store yet. Row ids define replay order.
type OfflineQueue struct {
	db *sqlx.DB
}

func NewOfflineQueue(db *sqlx.DB) *OfflineQueue {
	return &OfflineQueue{db: db}
}

func (q *OfflineQueue) Append(ctx context.Context, e *domain.OfflineQueueEntry) error {
	if e.Status == "" {
		e.Status = domain.OfflineEntryPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO offline_queue (action, target_id, payload, status, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(e.Action), e.TargetID, string(e.Payload), string(e.Status), e.Attempts, e.LastError,
		toMillis(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Replayable returns pending entries and failed entries with fewer than
// maxAttempts attempts, in insertion order.
func (q *OfflineQueue) Replayable(ctx context.Context, maxAttempts int) ([]domain.OfflineQueueEntry, error) {
	var rows []offlineRow
	err := q.db.SelectContext(ctx, &rows, `
		SELECT id, action, target_id, payload, status, attempts, last_error, created_at
		FROM offline_queue
		WHERE status = ? OR (status = ? AND attempts < ?)
		ORDER BY id`,
		string(domain.OfflineEntryPending), string(domain.OfflineEntryFailed), maxAttempts,
	)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OfflineQueueEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.OfflineQueueEntry{
			ID:        r.ID,
			Action:    domain.SyncAction(r.Action),
			TargetID:  r.TargetID,
			Payload:   []byte(r.Payload),
			Status:    domain.OfflineEntryStatus(r.Status),
			Attempts:  r.Attempts,
			LastError: r.LastError,
			CreatedAt: fromMillis(r.CreatedAt),
		})
	}
	return out, nil
}

func (q *OfflineQueue) Delete(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM offline_queue WHERE id = ?`, id)
	return err
}

func (q *OfflineQueue) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE offline_queue SET status = ?, attempts = attempts + 1, last_error = ?
		WHERE id = ?`,
		string(domain.OfflineEntryFailed), errMsg, id,
	)
	return err
}

// Counts returns how many entries are pending and how many failed.
func (q *OfflineQueue) Counts(ctx context.Context) (pending, failed int, err error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := q.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM offline_queue GROUP BY status`); err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch domain.OfflineEntryStatus(r.Status) {
		case domain.OfflineEntryPending:
			pending = r.N
		case domain.OfflineEntryFailed:
			failed = r.N
		}
	}
	return pending, failed, nil
}
