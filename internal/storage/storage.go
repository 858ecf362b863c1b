// Package storage defines the site's persistence: a privacy-preserving visit
// log and the log of relayed contact messages.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Visit is one tracked page view. The client address is stored only as a
// salted hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	VisitedAt time.Time `json:"visited_at"`
}

// MessageStatus tracks a relayed message through delivery.
type MessageStatus string

const (
	StatusPending MessageStatus = "pending"
	StatusSent    MessageStatus = "sent"
	StatusFailed  MessageStatus = "failed"
)

// Message is a contact message as received by the relay.
type Message struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Body      string        `json:"message"`
	Status    MessageStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PageStat counts views of one path.
type PageStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisits    int64      `json:"total_visits"`
	UniqueVisitors int64      `json:"unique_visitors"`
	VisitsToday    int64      `json:"visits_today"`
	VisitsThisWeek int64      `json:"visits_this_week"`
	TopPages       []PageStat `json:"top_pages"`
	TotalMessages  int64      `json:"total_messages"`
	FailedMessages int64      `json:"failed_messages"`
	RecentVisits   []Visit    `json:"recent_visits"`
	RecentMessages []Message  `json:"recent_messages"`
	GeneratedAt    time.Time  `json:"generated_at"`
}

// Storage is implemented by sqlite.Store.
type Storage interface {
	RecordVisit(ctx context.Context, v Visit) error
	ListVisits(ctx context.Context, limit int) ([]Visit, error)
	PurgeVisits(ctx context.Context, before time.Time) (int64, error)

	SaveMessage(ctx context.Context, m Message) error
	SetMessageStatus(ctx context.Context, id string, status MessageStatus, errText string) error
	GetMessage(ctx context.Context, id string) (Message, error)
	ListMessages(ctx context.Context, limit int) ([]Message, error)

	Stats(ctx context.Context, now time.Time) (*Stats, error)
}
