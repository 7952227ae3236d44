// api/audit/postgres_repository.go
package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const createAuditTable = `
CREATE TABLE IF NOT EXISTS audit_logs (
	id          TEXT PRIMARY KEY,
	actor_id    TEXT NOT NULL,
	actor_name  TEXT NOT NULL,
	actor_email TEXT NOT NULL,
	action      TEXT NOT NULL,
	entity      TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_logs_created_at_idx ON audit_logs (created_at DESC)`

type PostgresRepository struct {
	db pgExecutor
}

func NewPostgresRepository(db pgExecutor) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the audit_logs table when it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createAuditTable); err != nil {
		return fmt.Errorf("failed to create audit_logs table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, log AuditLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_logs (id, actor_id, actor_name, actor_email, action, entity, entity_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.User.ID, log.User.Name, log.User.Email, string(log.Action), string(log.Entity), log.EntityID, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Query(ctx context.Context, filter Filter) ([]AuditLog, error) {
	sql, args := buildAuditQuery(filter)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}

	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (AuditLog, error) {
		var log AuditLog
		var action, entity string
		err := row.Scan(&log.ID, &log.User.ID, &log.User.Name, &log.User.Email, &action, &entity, &log.EntityID, &log.CreatedAt)
		log.Action = Action(action)
		log.Entity = Entity(entity)
		return log, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit logs: %w", err)
	}
	return logs, nil
}

func buildAuditQuery(filter Filter) (string, []any) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Action != "" {
		add("action = $%d", string(filter.Action))
	}
	if filter.Entity != "" {
		add("entity = $%d", string(filter.Entity))
	}
	if filter.ActorEmail != "" {
		add("actor_email = $%d", filter.ActorEmail)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}

	var b strings.Builder
	b.WriteString("SELECT id, actor_id, actor_name, actor_email, action, entity, entity_id, created_at FROM audit_logs")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, filter.limit(), filter.offset())
	fmt.Fprintf(&b, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}
