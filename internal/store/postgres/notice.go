package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/taskhive/internal/domain"
)

type NoticeRepo struct {
	pool *pgxpool.Pool
}

func NewNoticeRepo(pool *pgxpool.Pool) *NoticeRepo {
	return &NoticeRepo{pool: pool}
}

func (r *NoticeRepo) Create(ctx context.Context, n *domain.Notice) error {
	isRead := n.IsRead
	if isRead == nil {
		isRead = []uuid.UUID{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notices (id, team, text, task, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Team, n.Text, n.Task, isRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("noticeRepo.Create: %w", err)
	}

	return nil
}

func (r *NoticeRepo) ListUnread(ctx context.Context, userID uuid.UUID) ([]*domain.Notice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, team, text, task, is_read, created_at
		 FROM notices
		 WHERE $1 = ANY(team) AND NOT ($1 = ANY(is_read))
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("noticeRepo.ListUnread: %w", err)
	}
	defer rows.Close()

	return collectNotices(rows, "noticeRepo.ListUnread")
}

// MarkRead is idempotent: marking an already-read or missing notice is not
// an error, matching how the client fires these requests.
func (r *NoticeRepo) MarkRead(ctx context.Context, noticeID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notices SET is_read = array_append(is_read, $2)
		 WHERE id = $1 AND NOT ($2 = ANY(is_read))`,
		noticeID, userID,
	)
	if err != nil {
		return fmt.Errorf("noticeRepo.MarkRead: %w", err)
	}

	return nil
}

func (r *NoticeRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notices SET is_read = array_append(is_read, $1)
		 WHERE $1 = ANY(team) AND NOT ($1 = ANY(is_read))`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("noticeRepo.MarkAllRead: %w", err)
	}

	return nil
}

func collectNotices(rows pgx.Rows, caller string) ([]*domain.Notice, error) {
	var notices []*domain.Notice
	for rows.Next() {
		var n domain.Notice
		if err := rows.Scan(&n.ID, &n.Team, &n.Text, &n.Task, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		notices = append(notices, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return notices, nil
}
