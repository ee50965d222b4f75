package repository

import (
	"context"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

// GetUnavailableMemberIDs はその日担当できないメンバー ID を登録順に返す
func (r *Repository) GetUnavailableMemberIDs(dateKey string) ([]string, error) {
	query := `
		SELECT member_id FROM unavailable_members WHERE date_key = $1 ORDER BY position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, dateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *Repository) GetAllUnavailability() (domain.UnavailabilityMap, error) {
	query := `
		SELECT date_key, member_id FROM unavailable_members ORDER BY date_key, position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unavailability := make(domain.UnavailabilityMap)
	for rows.Next() {
		var dateKey string
		var memberID string
		if err := rows.Scan(&dateKey, &memberID); err != nil {
			return nil, err
		}
		unavailability[dateKey] = append(unavailability[dateKey], memberID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return unavailability, nil
}

// ReplaceUnavailableMemberIDs はその日の不在リスト全体を置き換える。
// リストの順序と重複はそのまま保存する
func (r *Repository) ReplaceUnavailableMemberIDs(dateKey string, memberIDs []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先に既存のリストを消してから入れ直す
	query := `DELETE FROM unavailable_members WHERE date_key = $1`
	if _, err := tx.ExecContext(ctx, query, dateKey); err != nil {
		return err
	}

	query = `
		INSERT INTO unavailable_members (date_key, position, member_id)
		VALUES ($1, $2, $3)
	`
	for position, memberID := range memberIDs {
		if _, err := tx.ExecContext(ctx, query, dateKey, position, memberID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
