// Package sqlite implements storage.Storage on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ianmwanzi/portfolio/internal/storage"
	_ "modernc.org/sqlite"
)

const (
	topPagesLimit       = 10
	recentVisitsLimit   = 50
	recentMessagesLimit = 10
)

var _ storage.Storage = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not ping sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) RecordVisit(ctx context.Context, v storage.Visit) error {
	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.VisitedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("could not record visit: %w", err)
	}
	return nil
}

func (s *Store) ListVisits(ctx context.Context, limit int) ([]storage.Visit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hashed_ip, user_agent, path, visited_at
		 FROM visits
		 ORDER BY visited_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list visits: %w", err)
	}
	defer rows.Close()

	var visits []storage.Visit
	for rows.Next() {
		var v storage.Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &at); err != nil {
			return nil, fmt.Errorf("could not scan visit: %w", err)
		}
		v.VisitedAt = time.UnixMilli(at).UTC()
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// PurgeVisits deletes visits recorded before the cutoff and returns how
// many were removed.
func (s *Store) PurgeVisits(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE visited_at < ?`, before.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("could not purge visits: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) SaveMessage(ctx context.Context, m storage.Message) error {
	if m.ID == "" {
		return errors.New("message id is required")
	}
	if m.Status == "" {
		m.Status = storage.StatusPending
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, body, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Body, string(m.Status), m.Error,
		m.CreatedAt.UTC().UnixMilli(), m.UpdatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("could not save message: %w", err)
	}
	return nil
}

func (s *Store) SetMessageStatus(ctx context.Context, id string, status storage.MessageStatus, errText string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errText, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("could not update message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const messageColumns = `id, name, email, subject, body, status, error, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (storage.Message, error) {
	var m storage.Message
	var status string
	var created, updated int64
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &status, &m.Error, &created, &updated); err != nil {
		return storage.Message{}, err
	}
	m.Status = storage.MessageStatus(status)
	m.CreatedAt = time.UnixMilli(created).UTC()
	m.UpdatedAt = time.UnixMilli(updated).UTC()
	return m, nil
}

func (s *Store) GetMessage(ctx context.Context, id string) (storage.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Message{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Message{}, fmt.Errorf("could not get message: %w", err)
	}
	return m, nil
}

func (s *Store) ListMessages(ctx context.Context, limit int) ([]storage.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list messages: %w", err)
	}
	defer rows.Close()

	var messages []storage.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// Stats summarises visits and messages. "Today" starts at midnight UTC of
// now and "this week" covers the seven days before now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*storage.Stats, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &storage.Stats{GeneratedAt: now}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisits, `SELECT COUNT(*) FROM visits`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visits`, nil},
		{&stats.VisitsToday, `SELECT COUNT(*) FROM visits WHERE visited_at >= ?`, []any{midnight.UnixMilli()}},
		{&stats.VisitsThisWeek, `SELECT COUNT(*) FROM visits WHERE visited_at >= ?`, []any{weekAgo.UnixMilli()}},
		{&stats.TotalMessages, `SELECT COUNT(*) FROM contact_messages`, nil},
		{&stats.FailedMessages, `SELECT COUNT(*) FROM contact_messages WHERE status = ?`, []any{string(storage.StatusFailed)}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("could not count: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views
		 FROM visits
		 GROUP BY path
		 ORDER BY views DESC, path ASC
		 LIMIT ?`, topPagesLimit)
	if err != nil {
		return nil, fmt.Errorf("could not list top pages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p storage.PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, fmt.Errorf("could not scan page stat: %w", err)
		}
		stats.TopPages = append(stats.TopPages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RecentVisits, err = s.ListVisits(ctx, recentVisitsLimit); err != nil {
		return nil, err
	}
	if stats.RecentMessages, err = s.ListMessages(ctx, recentMessagesLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
