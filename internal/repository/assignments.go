package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

// GetAssignmentsByDateKey はその日の割り当てを返す。
// 行が無い担当はマップに含まれず、member_id が NULL の担当は nil になる。
// どちらも未割り当てを意味する
func (r *Repository) GetAssignmentsByDateKey(dateKey string) (domain.DutyAssignments, error) {
	query := `
		SELECT duty, member_id FROM assignments WHERE date_key = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, dateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make(domain.DutyAssignments)
	for rows.Next() {
		var duty domain.Duty
		var memberID sql.NullString
		if err := rows.Scan(&duty, &memberID); err != nil {
			return nil, err
		}

		if memberID.Valid {
			id := memberID.String
			assignments[duty] = &id
		} else {
			assignments[duty] = nil
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAllAssignments() (domain.AssignmentMap, error) {
	query := `
		SELECT date_key, duty, member_id FROM assignments ORDER BY date_key
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make(domain.AssignmentMap)
	for rows.Next() {
		var dateKey string
		var duty domain.Duty
		var memberID sql.NullString
		if err := rows.Scan(&dateKey, &duty, &memberID); err != nil {
			return nil, err
		}

		if _, exists := assignments[dateKey]; !exists {
			assignments[dateKey] = make(domain.DutyAssignments)
		}

		if memberID.Valid {
			id := memberID.String
			assignments[dateKey][duty] = &id
		} else {
			assignments[dateKey][duty] = nil
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// AssignDuty は (日付, 担当) のセルを無条件に上書きする。
// 書き込み時に割り当て可否の再検証はしない
func (r *Repository) AssignDuty(dateKey string, duty domain.Duty, memberID string) error {
	query := `
		INSERT INTO assignments (date_key, duty, member_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (date_key, duty) DO UPDATE SET member_id = EXCLUDED.member_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, dateKey, duty, memberID); err != nil {
		return err
	}

	return nil
}

// UnassignDuty はセルを明示的な未割り当て（NULL）にする。行の削除ではない
func (r *Repository) UnassignDuty(dateKey string, duty domain.Duty) error {
	query := `
		INSERT INTO assignments (date_key, duty, member_id)
		VALUES ($1, $2, NULL)
		ON CONFLICT (date_key, duty) DO UPDATE SET member_id = NULL
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, dateKey, duty); err != nil {
		return err
	}

	return nil
}
