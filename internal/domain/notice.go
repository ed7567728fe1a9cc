package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notice is the per-team notification record derived from a task event.
// It has no lifecycle beyond creation and read marking.
type Notice struct {
	ID        uuid.UUID   `json:"id"`
	Team      []uuid.UUID `json:"team"`
	Text      string      `json:"text"`
	Task      uuid.UUID   `json:"task"`
	IsRead    []uuid.UUID `json:"isRead"`
	CreatedAt time.Time   `json:"createdAt"`
}

type NoticeRepository interface {
	Create(ctx context.Context, n *Notice) error
	// ListUnread returns notices addressed to userID that userID has not
	// marked read yet, newest first.
	ListUnread(ctx context.Context, userID uuid.UUID) ([]*Notice, error)
	MarkRead(ctx context.Context, noticeID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
