package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

// CreateMember はストア側で ID を採番してメンバーを登録する。ID は以後不変
func (r *Repository) CreateMember(member *domain.Member) error {
	query := `
		INSERT INTO members (id, name, priesthood)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	member.ID = uuid.NewString()

	if err := r.dbpool.QueryRowContext(ctx, query, member.ID, member.Name, member.Priesthood).Scan(&member.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetMemberByID(id string) (*domain.Member, error) {
	query := `
		SELECT name, priesthood, created_at
		FROM members WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	member := &domain.Member{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&member.Name, &member.Priesthood, &member.CreatedAt); err != nil {
		return nil, err
	}

	return member, nil
}

// GetAllMembers は登録順にメンバーを返す
func (r *Repository) GetAllMembers() ([]*domain.Member, error) {
	query := `
		SELECT id, name, priesthood, created_at FROM members ORDER BY seq
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.Member, 0)
	for rows.Next() {
		member := &domain.Member{}
		if err := rows.Scan(&member.ID, &member.Name, &member.Priesthood, &member.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

// UpdateMember は ID 以外の全フィールドを上書きする。後勝ちで、バージョン管理はしない
func (r *Repository) UpdateMember(member *domain.Member) error {
	query := `
		UPDATE members
		SET
			name = $1,
			priesthood = $2
		WHERE id = $3
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, member.Name, member.Priesthood, member.ID).Scan(&member.CreatedAt); err != nil {
		return err
	}

	return nil
}

// DeleteMember は無条件にメンバーを削除する。
// 既存の割り当てや不在リストに残った ID は回収しない（参照切れは許容する）
func (r *Repository) DeleteMember(id string) error {
	query := `
		DELETE FROM members WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
