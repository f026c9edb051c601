package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// UpsertLabels makes sure every label exists and returns the tag ids in the
// order of labels.
func (s *TagStore) UpsertLabels(ctx context.Context, labels []string) ([]int64, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	exec := GetExecutor(ctx, s.db)

	var sb strings.Builder
	sb.WriteString("INSERT INTO tags (label) VALUES ")
	valueArgs := make([]any, 0, len(labels))
	for i, label := range labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(")")
		valueArgs = append(valueArgs, label)
	}
	sb.WriteString(" ON CONFLICT (label) DO NOTHING")

	if _, err := exec.ExecContext(ctx, sb.String(), valueArgs...); err != nil {
		return nil, err
	}

	var rows []struct {
		ID    int64  `db:"id"`
		Label string `db:"label"`
	}
	if err := sqlx.SelectContext(ctx, exec, &rows,
		`SELECT id, label FROM tags WHERE label = ANY($1)`, pq.Array(labels)); err != nil {
		return nil, err
	}
	byLabel := make(map[string]int64, len(rows))
	for _, r := range rows {
		byLabel[r.Label] = r.ID
	}
	ids := make([]int64, 0, len(labels))
	for _, label := range labels {
		if id, ok := byLabel[label]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// LinkToItem replaces the item's tag links with tagIDs.
func (s *TagStore) LinkToItem(ctx context.Context, itemID string, tagIDs []int64) error {
	exec := GetExecutor(ctx, s.db)
	if _, err := exec.ExecContext(ctx, "DELETE FROM item_tags WHERE item_id = $1", itemID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO item_tags (item_id, tag_id) VALUES ")
	valueArgs := make([]any, 0, len(tagIDs)+1)
	valueArgs = append(valueArgs, itemID)
	for i, tagID := range tagIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($1, $")
		sb.WriteString(strconv.Itoa(i + 2))
		sb.WriteString(")")
		valueArgs = append(valueArgs, tagID)
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")

	_, err := exec.ExecContext(ctx, sb.String(), valueArgs...)
	return err
}

func (s *TagStore) GetByItemID(ctx context.Context, itemID string) ([]string, error) {
	var labels []string
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &labels, `
		SELECT t.label
		FROM tags t
		INNER JOIN item_tags it ON it.tag_id = t.id
		WHERE it.item_id = $1
		ORDER BY t.label`, itemID)
	return labels, err
}
