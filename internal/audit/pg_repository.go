package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the slice of pgxpool.Pool the repository needs; pgxmock
// implements it for tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PgRepository struct {
	db querier
}

func NewPgRepository(db querier) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Insert(ctx context.Context, e Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (actor_id, actor_name, action, entity, entity_id, outcome, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ActorID, e.ActorName, e.Action, e.Entity, e.EntityID, e.Outcome, e.IP, e.UserAgent, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, actor_id, actor_name, action, entity, entity_id, outcome, ip, user_agent, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.ActorName,
			&e.Action,
			&e.Entity,
			&e.EntityID,
			&e.Outcome,
			&e.IP,
			&e.UserAgent,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
