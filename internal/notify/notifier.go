// Package notify derives human-readable notices from task mutations and
// fans them out to the affected team.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskhive/internal/domain"
	redisstore "github.com/gosuda/taskhive/internal/store/redis"
)

// toDateString matches the date rendering the web client has always shown
// in notices ("Wed Jan 10 2024").
const toDateString = "Mon Jan 02 2006"

// ComposeAssignment builds the notice text for a task assignment. The same
// string is recorded as the seeded "assigned" activity and as the notice
// body. An empty team is rejected: the text references the number of other
// assignees, so there must be at least one.
func ComposeAssignment(teamSize int, priority string, date time.Time) (string, error) {
	if teamSize < 1 {
		return "", fmt.Errorf("notify.ComposeAssignment: team must have at least one member: %w", domain.ErrValidation)
	}

	text := "New task has been assigned to you"
	if teamSize > 1 {
		text += fmt.Sprintf(" and %d others.", teamSize-1)
	}
	text += fmt.Sprintf(
		" The task priority is set to %s priority, so check and act accordingly. The task date is %s. Thank you!!!",
		priority, date.Format(toDateString),
	)

	return text, nil
}

// Publisher pushes a fan-out event to a channel. *redisstore.PubSub
// satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Event is the payload published per team member when a notice is written.
type Event struct {
	Notice uuid.UUID `json:"notice"`
	Task   uuid.UUID `json:"task"`
	Text   string    `json:"text"`
}

// Notifier writes a Notice row for the affected team and then publishes one
// event per member. The row write is the source of truth; publishing is
// best-effort and never fails the request.
type Notifier struct {
	notices domain.NoticeRepository
	pub     Publisher // nil disables live events
}

// New creates a Notifier. pub may be nil when Redis is not configured.
func New(notices domain.NoticeRepository, pub Publisher) *Notifier {
	return &Notifier{notices: notices, pub: pub}
}

// Notify inserts one Notice row addressed to team. The task row this notice
// refers to has already been committed by the caller; a failure here is
// surfaced as an overall request failure even so.
func (n *Notifier) Notify(ctx context.Context, team []uuid.UUID, text string, taskID uuid.UUID) error {
	notice := &domain.Notice{
		ID:        uuid.New(),
		Team:      team,
		Text:      text,
		Task:      taskID,
		CreatedAt: time.Now(),
	}

	if err := n.notices.Create(ctx, notice); err != nil {
		return fmt.Errorf("notify.Notifier.Notify: %w", err)
	}

	if n.pub == nil {
		return nil
	}

	payload, err := json.Marshal(Event{Notice: notice.ID, Task: taskID, Text: text})
	if err != nil {
		log.Warn().Err(err).Msg("notify: failed to encode fan-out event")
		return nil
	}

	for _, member := range team {
		if pubErr := n.pub.Publish(ctx, redisstore.NoticeChannel(member), payload); pubErr != nil {
			log.Warn().Err(pubErr).Str("user_id", member.String()).Msg("notify: failed to publish notice event")
		}
	}

	return nil
}
