package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/repository"
)

var _ repository.UserRegistry = (*UserRegistry)(nil)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// UserRegistry persists user ids in the line_users table. The primary key
// plus ON CONFLICT DO NOTHING makes RecordIfNew atomic per id.
type UserRegistry struct {
	db querier
}

func NewUserRegistry(db querier) *UserRegistry {
	return &UserRegistry{db: db}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS line_users (
  user_id       TEXT PRIMARY KEY,
  first_seen_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureSchema creates the table when it does not exist yet.
func (r *UserRegistry) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure line_users: %w", err)
	}
	return nil
}

func (r *UserRegistry) Contains(ctx context.Context, id model.UserID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM line_users WHERE user_id=$1);`
	var ok bool
	if err := r.db.QueryRow(ctx, q, id.String()).Scan(&ok); err != nil {
		return false, fmt.Errorf("contains user: %w", err)
	}
	return ok, nil
}

func (r *UserRegistry) RecordIfNew(ctx context.Context, id model.UserID) (bool, error) {
	const q = `INSERT INTO line_users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING;`
	tag, err := r.db.Exec(ctx, q, id.String())
	if err != nil {
		return false, fmt.Errorf("record user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRegistry) List(ctx context.Context) ([]model.UserID, error) {
	const q = `SELECT user_id FROM line_users ORDER BY first_seen_at, user_id;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []model.UserID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, model.UserID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
